package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tableside/internal/identity"
)

// NewRouter assembles the full HTTP surface. The session middleware runs
// after the generic chi stack so request ids and panics are handled before
// identity resolution.
func NewRouter(
	menu *MenuHandler,
	cart *CartHandler,
	takeaway *TakeawayHandler,
	dinein *DineInHandler,
	ident identity.Identity,
	requestTimeout time.Duration,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(ident))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", menu.GetPage)
			r.Get("/items", menu.GetItems)
			r.Get("/items/{item_id}", menu.GetItem)
			r.Get("/items/{item_id}/reviews", menu.GetItemReviews)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/summary", cart.GetSummary)
			r.Post("/items", cart.AddItem)
			r.Put("/items/{item_id}", cart.UpdateQuantity)
			r.Delete("/items/{item_id}", cart.RemoveItem)
		})

		r.Route("/takeaway", func(r chi.Router) {
			r.Get("/pickup-times", takeaway.GetPickupTimes)
			r.Get("/time-info", takeaway.GetTimeInformation)
			r.Post("/orders/validate", takeaway.ValidateOrder)
			r.Post("/orders", takeaway.PlaceOrder)
		})

		r.Route("/dinein", func(r chi.Router) {
			r.Post("/scan", dinein.Scan)
			r.Get("/menu", dinein.GetMenu)
			r.Post("/group-orders", dinein.CreateGroupOrder)
			r.Post("/group-orders/join", dinein.JoinGroupOrder)
			r.Get("/group-orders/items", dinein.GetGroupItems)
			r.Get("/summary", dinein.GetOrderSummary)
			r.Post("/orders", dinein.ConfirmOrder)
		})

		r.Get("/orders/{order_id}", takeaway.GetConfirmation)
	})

	return otelhttp.NewHandler(r, "tableside")
}
