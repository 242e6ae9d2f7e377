package api

import (
	"net/http"
	"stock-service/internal/api/handlers"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func NewRouter(products *handlers.ProductHandler, histories *handlers.HistoryHandler, users *handlers.UserHandler, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(requestLogger(log))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Stock management server is running"))
	})

	r.Post("/create-user", users.Create)
	r.Post("/user", users.Login)

	r.Post("/product/add", products.Add)
	r.Get("/products", products.GetAll)
	r.Get("/product/{id}", products.GetByID)
	r.Patch("/product/update/{id}", products.UpdateStock)
	r.Delete("/product/delete/{id}", products.Delete)

	r.Get("/histories", histories.GetAll)
	r.Delete("/history/delete/{id}", histories.Delete)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(start).String(),
			}).Info("request completed")
		})
	}
}
