package main

import (
	"fmt"
	"net/http"

	"github.com/fleetoffice/fleet-backend-go/internal/config"
	appHTTP "github.com/fleetoffice/fleet-backend-go/internal/handler/http"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/database"
	"github.com/fleetoffice/fleet-backend-go/internal/pkg/jwt"
	"github.com/fleetoffice/fleet-backend-go/internal/repository/postgresql"
	payrollService "github.com/fleetoffice/fleet-backend-go/internal/service/payroll"
	tariffService "github.com/fleetoffice/fleet-backend-go/internal/service/tariff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	tariffRepo := postgresql.NewTariffRepository(db)
	tripRepo := postgresql.NewTripRepository(db)
	driverRepo := postgresql.NewDriverRepository(db)
	ledgerRepo := postgresql.NewLedgerRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	tariffSvc := tariffService.NewTariffService(tariffRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, tariffRepo, tripRepo, driverRepo, ledgerRepo, txManager)

	tariffHandler := appHTTP.NewTariffHandler(tariffSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(cfg, JWTService, tariffHandler, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
