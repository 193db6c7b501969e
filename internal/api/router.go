package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "qrlink/internal/api/context"
	"qrlink/internal/api/handlers"
	"qrlink/internal/api/middleware"
)

type Dependencies struct {
	PageHandler       *handlers.PageHandler
	HealthHandler     *handlers.HealthHandler
	SessionMiddleware *middleware.SessionMiddleware
	RateLimiter       *middleware.RateLimiter
	CookieName        string
}

func NewRouter(deps *Dependencies) http.Handler {
	router := httprouter.New()

	sess := deps.SessionMiddleware.Handle
	limit := deps.RateLimiter.Handle

	// Page
	router.GET("/", chain(deps.PageHandler.Index, sess))
	// Limited requests never reach the session store.
	router.POST("/generate", chain(deps.PageHandler.Generate, limit, sess))
	router.POST("/reset", chain(deps.PageHandler.Reset, sess))
	router.GET("/download", chain(deps.PageHandler.Download, sess))

	// Keystroke validation
	router.POST("/api/v1/validate", chain(deps.PageHandler.Validate, sess))

	router.GET("/healthz", wrap(deps.HealthHandler.Check))

	return middleware.Logging(deps.CookieName)(router)
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
