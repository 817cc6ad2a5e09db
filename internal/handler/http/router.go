package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/fleetoffice/fleet-backend-go/internal/config"
	"github.com/fleetoffice/fleet-backend-go/internal/handler/http/middleware"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/jwt"
)

func NewRouter(cfg *config.Config, JWTService jwt.Service, tariffHandler TariffHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fleet-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication, admin only
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.AdminOnly)

			r.Route("/tariffs", func(r chi.Router) {
				r.Get("/", tariffHandler.ListEntries)
				r.Get("/lookup", tariffHandler.LookupEntry)
				r.Post("/", tariffHandler.UpsertEntry)
				r.Delete("/{id}", tariffHandler.DeleteEntry)
				r.Post("/clone", tariffHandler.CloneYear)
				r.Post("/import", tariffHandler.BulkImport)

				r.Route("/config/{year}", func(r chi.Router) {
					r.Get("/", tariffHandler.GetConfig)
					r.Put("/", tariffHandler.UpdateConfig)
				})
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/", payrollHandler.ListRecords)
				r.Get("/summary", payrollHandler.GetSummary)
				r.Post("/compute", payrollHandler.Compute)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRecord)
					r.Patch("/notes", payrollHandler.UpdateNotes)
					r.Post("/confirm", payrollHandler.Confirm)
					r.Post("/pay", payrollHandler.Pay)
				})
			})
		})
	})
	return r
}
