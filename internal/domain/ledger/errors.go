package ledger

import "errors"

var ErrEntryExists = errors.New("ledger entry already exists for source reference")
