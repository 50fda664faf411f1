package router

import (
	"time"

	"github.com/promisepoint/lending-service/internal/interface/http/handler"
	"github.com/promisepoint/lending-service/internal/interface/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(handlers *handler.Handlers, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/loans", func(r chi.Router) {
			r.Post("/", handlers.Loan.CreateLoan)
			r.Get("/", handlers.Loan.ListLoans)
			r.Get("/kpis", handlers.Loan.GetLoanKPIs)
			r.Get("/{loan_id}", handlers.Loan.GetLoan)
			r.Post("/{loan_id}/approve", handlers.Loan.ApproveLoan)
			r.Post("/{loan_id}/delivery", handlers.Loan.RecordDelivery)
			r.Post("/{loan_id}/activate", handlers.Loan.ActivateLoan)
		})

		r.Route("/loan-types", func(r chi.Router) {
			r.Post("/", handlers.LoanType.CreateLoanType)
			r.Get("/", handlers.LoanType.ListLoanTypes)
			r.Get("/{loan_type_id}", handlers.LoanType.GetLoanType)
			r.Post("/{loan_type_id}/deactivate", handlers.LoanType.DeactivateLoanType)
		})

		r.Route("/pickups", func(r chi.Router) {
			r.Post("/", handlers.Pickup.CreatePickup)
			r.Get("/", handlers.Pickup.ListPickups)
			r.Get("/{pickup_id}", handlers.Pickup.GetPickup)
			r.Get("/{pickup_id}/purchase", handlers.Pickup.PickupPurchase)
			r.Post("/{pickup_id}/approve", handlers.Pickup.ApprovePickup)
			r.Post("/{pickup_id}/staff-proposal", handlers.Pickup.StaffProposal)
			r.Post("/{pickup_id}/process", handlers.Pickup.ProcessPickup)
			r.Post("/{pickup_id}/cancel", handlers.Pickup.CancelPickup)
		})

		r.Get("/purchases/{purchase_id}", handlers.Pickup.GetPurchase)

		r.Get("/ops-queue", handlers.Pickup.OpsQueue)
	})

	return r
}
