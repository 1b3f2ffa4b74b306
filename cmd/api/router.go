package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/conecta-lead/internal/infra/http/handlers"
	"github.com/xavierca1/conecta-lead/internal/infra/http/middleware"
)

type routerDeps struct {
	CORSOrigins      []string
	SupportURL       string
	WebhookRateLimit int
	SignInRateLimit  int
	NewStore         middleware.StoreFactory

	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Board     *handlers.BoardHandler
	Leads     *handlers.LeadsHandler
	Followups *handlers.FollowupHandler
	Profile   *handlers.ProfileHandler
	WhatsApp  *handlers.WhatsAppHandler
	Webhook   *handlers.WebhookHandler
	Admin     *handlers.AdminHandler
	Reports   *handlers.ReportHandler
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.With(httprate.LimitByIP(d.WebhookRateLimit, time.Minute)).
		Post("/webhook/leads/{token}", d.Webhook.CaptureLeadHandler)

	r.With(httprate.LimitByIP(d.SignInRateLimit, time.Minute)).
		Post("/auth/sign-in", d.Auth.SignIn)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(d.NewStore))

		r.Post("/auth/sign-out", d.Auth.SignOut)
		r.Get("/auth/me", d.Auth.Me)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Guard(d.SupportURL))

			r.Get("/dashboard", d.Leads.Dashboard)
			r.Get("/board", d.Board.Get)
			r.Get("/leads", d.Leads.List)
			r.Get("/leads/export.csv", d.Leads.ExportCSV)
			r.Get("/labels", d.Board.ListLabels)

			r.Group(func(r chi.Router) {
				r.Use(middleware.TenantWrite)

				r.Post("/board/leads", d.Board.CreateLead)
				r.Patch("/board/leads/{id}", d.Board.UpdateLead)
				r.Delete("/board/leads/{id}", d.Board.DeleteLead)
				r.Post("/board/leads/{id}/labels/{labelID}", d.Board.AddLabel)
				r.Delete("/board/leads/{id}/labels/{labelID}", d.Board.RemoveLabel)
				r.Post("/board/columns", d.Board.CreateColumn)
				r.Patch("/board/columns/{id}", d.Board.RenameColumn)
				r.Delete("/board/columns/{id}", d.Board.DeleteColumn)
				r.Post("/labels", d.Board.CreateLabel)

				r.Get("/followups", d.Followups.List)
				r.Post("/followups", d.Followups.Create)
				r.Post("/followups/{id}/cancel", d.Followups.Cancel)

				r.Get("/profile", d.Profile.Get)
				r.Patch("/profile", d.Profile.Update)

				r.Get("/whatsapp/qrcode", d.WhatsApp.QRCode)
				r.Get("/whatsapp/status", d.WhatsApp.Status)
				r.Get("/whatsapp/status/stream", d.WhatsApp.StatusStream)
			})

			// admin recebe 403 somente leitura direto do DragSession
			r.Post("/board/leads/{id}/move", d.Board.MoveLead)
			r.Post("/profile/password", d.Profile.ChangePassword)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Get("/clients", d.Admin.ListClients)
				r.Post("/clients", d.Admin.CreateClient)
				r.Get("/clients/{id}", d.Admin.GetClient)
				r.Patch("/clients/{id}", d.Admin.UpdateClient)
				r.Delete("/clients/{id}", d.Admin.DeleteClient)
				r.Get("/clients/{id}/board", d.Admin.ClientBoard)

				r.Post("/payments", d.Admin.CreatePayment)
				r.Post("/payments/{id}/paid", d.Admin.MarkPaid)

				r.Get("/reports/payments", d.Reports.Payments)
				r.Get("/reports/payments.csv", d.Reports.PaymentsCSV)
				r.Get("/reports/recurrence", d.Reports.Recurrence)
				r.Get("/reports/lead-scores", d.Reports.LeadScores)
			})
		})
	})

	return r
}
