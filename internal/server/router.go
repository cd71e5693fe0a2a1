package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/miramare/arredo/internal/config"
	"github.com/miramare/arredo/internal/handlers"

	"github.com/rs/zerolog/log"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(cfg config.Config) http.Handler {
	mux := http.NewServeMux()
	ph := handlers.NewProductHandler(cfg)

	mux.HandleFunc("GET /{$}", ph.Index)
	mux.HandleFunc("GET /add_product", ph.AddForm)
	mux.HandleFunc("POST /add_product", ph.Create)
	mux.HandleFunc("GET /product/{id}", ph.Show)
	mux.HandleFunc("GET /edit_product/{id}", ph.EditForm)
	mux.HandleFunc("POST /edit_product/{id}", ph.Update)
	mux.HandleFunc("GET /delete_product/{id}", ph.Delete)
	mux.HandleFunc("GET /report", ph.Report)
	mux.HandleFunc("GET /health", ph.Health)
	mux.HandleFunc("GET /api/products", ph.APIProducts)

	// stored media and page assets
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadRoot))))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	return withRecover(withLogging(mux))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// withRecover turns handler panics into a minimal diagnostic page so the
// service stays usable for operators during misconfiguration.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, "<h1>Hotel Miramare - Sistema Gestione Arredamento</h1><p>Errore: %v</p><p><a href='/health'>Health Check</a></p>", rec)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
