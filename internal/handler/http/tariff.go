package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fleetoffice/fleet-backend-go/internal/domain/tariff"
	"github.com/fleetoffice/fleet-backend-go/internal/handler/http/response"
)

type TariffHandler interface {
	// Entries
	LookupEntry(w http.ResponseWriter, r *http.Request)
	ListEntries(w http.ResponseWriter, r *http.Request)
	UpsertEntry(w http.ResponseWriter, r *http.Request)
	DeleteEntry(w http.ResponseWriter, r *http.Request)
	CloneYear(w http.ResponseWriter, r *http.Request)
	BulkImport(w http.ResponseWriter, r *http.Request)

	// Period configuration
	GetConfig(w http.ResponseWriter, r *http.Request)
	UpdateConfig(w http.ResponseWriter, r *http.Request)
}

type tariffHandlerImpl struct {
	tariffService tariff.TariffService
}

func NewTariffHandler(tariffService tariff.TariffService) TariffHandler {
	return &tariffHandlerImpl{tariffService: tariffService}
}

// ========== ENTRIES ==========

func (h *tariffHandlerImpl) LookupEntry(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(r.URL.Query().Get("year"))
	km, errK := strconv.Atoi(r.URL.Query().Get("km"))
	if errY != nil || errK != nil {
		response.BadRequest(w, "Year and km are required", nil)
		return
	}

	result, err := h.tariffService.LookupEntry(r.Context(), year, km)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *tariffHandlerImpl) ListEntries(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid or missing year", nil)
		return
	}

	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.tariffService.ListEntries(r.Context(), year, activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *tariffHandlerImpl) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	var req tariff.UpsertTariffEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.tariffService.UpsertEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *tariffHandlerImpl) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Entry ID is required", nil)
		return
	}

	if err := h.tariffService.DeleteEntry(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tariff entry deleted", nil)
}

func (h *tariffHandlerImpl) CloneYear(w http.ResponseWriter, r *http.Request) {
	var req tariff.CloneYearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.tariffService.CloneYear(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tariff year cloned", result)
}

func (h *tariffHandlerImpl) BulkImport(w http.ResponseWriter, r *http.Request) {
	var req tariff.BulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.tariffService.BulkImport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PERIOD CONFIGURATION ==========

func (h *tariffHandlerImpl) GetConfig(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "Invalid year", nil)
		return
	}

	result, err := h.tariffService.GetConfig(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *tariffHandlerImpl) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "Invalid year", nil)
		return
	}

	var req tariff.UpdatePeriodConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.tariffService.UpdateConfig(r.Context(), year, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func yearParam(r *http.Request) (int, error) {
	return strconv.Atoi(r.URL.Query().Get("year"))
}
