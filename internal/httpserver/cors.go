package httpserver

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/fdg312/diet-planner/internal/config"
)

// CORSMiddleware wraps next with rs/cors. An empty origin list denies every
// cross-origin request (rs/cors would otherwise treat it as "*").
func CORSMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           600,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts).Handler(next)
}
