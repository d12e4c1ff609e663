package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "productdash/internal/api/context"
	"productdash/internal/api/handlers"
	"productdash/internal/api/middleware"
)

type Dependencies struct {
	DashboardHandler *handlers.DashboardHandler
	ProductHandler   *handlers.ProductHandler
	WebhookHandler   *handlers.WebhookHandler
	ModalHandler     *handlers.ModalHandler
	ImportHandler    *handlers.ImportHandler
	HealthHandler    *handlers.HealthHandler
	MetricsHandler   *handlers.MetricsHandler
	Stats            *middleware.Stats
	MaxUploadBytes   int64
}

// NewRouter wires every dashboard route. Form posts answer with a 303 to the
// page they came from; row actions carry the entity id in the form body.
func NewRouter(deps *Dependencies) http.Handler {
	router := httprouter.New()
	post := middleware.SameOrigin

	// Pages
	router.GET("/", wrap(deps.DashboardHandler.Index))
	router.GET("/tabs/:tab", wrap(deps.DashboardHandler.Activate))
	router.GET("/products", wrap(deps.DashboardHandler.Products))
	router.GET("/webhooks", wrap(deps.DashboardHandler.Webhooks))
	router.GET("/import", wrap(deps.DashboardHandler.Import))

	// Products
	router.POST("/products/search", chain(deps.ProductHandler.Search, post))
	router.POST("/products/next", chain(deps.ProductHandler.Next, post))
	router.POST("/products/prev", chain(deps.ProductHandler.Prev, post))
	router.POST("/products/delete_all", chain(deps.ProductHandler.DeleteAll, post))
	router.POST("/products/delete", chain(deps.ProductHandler.Delete, post))

	// Webhooks
	router.POST("/webhooks/refresh", chain(deps.WebhookHandler.Refresh, post))
	router.POST("/webhooks/test", chain(deps.WebhookHandler.Test, post))
	router.POST("/webhooks/delete", chain(deps.WebhookHandler.Delete, post))

	// Modal form
	router.POST("/modal/products/new", chain(deps.ModalHandler.NewProduct, post))
	router.POST("/modal/products/edit", chain(deps.ModalHandler.EditProduct, post))
	router.POST("/modal/webhooks/new", chain(deps.ModalHandler.NewWebhook, post))
	router.POST("/modal/webhooks/edit", chain(deps.ModalHandler.EditWebhook, post))
	router.POST("/modal/save", chain(deps.ModalHandler.Save, post))
	router.POST("/modal/close", chain(deps.ModalHandler.Close, post))

	// Import
	router.POST("/import/upload", chain(deps.ImportHandler.Upload, post, middleware.MaxBody(deps.MaxUploadBytes)))
	router.GET("/import/status", wrap(deps.ImportHandler.Status))

	// Operations
	router.GET("/healthz", wrap(deps.HealthHandler.Check))
	router.GET("/metrics", wrap(deps.MetricsHandler.Export))

	var h http.Handler = router
	h = middleware.Recover(h)
	h = middleware.AccessLog(deps.Stats)(h)
	h = middleware.RequestID(h)
	return h
}

// chain applies middlewares so the first one listed runs first.
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// wrap adapts an http.HandlerFunc and exposes the route params through the context.
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
