package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the desktop shell's webview origin to reach the local API.
func CORS() Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
