package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"brainstorm/internal/service"
	"brainstorm/internal/transport/rest/handler"
	"brainstorm/internal/transport/rest/middleware"
	"brainstorm/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	Game        *service.GameService
	WSHub       *ws.Hub
	Backend     string // "gemini" or "fallback"
	PublicURL   string
	CORSOrigins string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	roomHandler := handler.NewRoomHandler(c.Game, c.PublicURL)
	adminHandler := handler.NewAdminHandler(c.Game)
	wsHandler := ws.NewHandler(c.WSHub, c.Game)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.CORSOrigins))

	// Health check
	r.HandleFunc("/health", healthHandler(c)).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/rooms/{code}", roomHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/rooms/{code}/qr.png", roomHandler.QR).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard", roomHandler.Leaderboard).Methods("GET", "OPTIONS")

	// Game socket
	v1.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	// Operator routes (require operator auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireOperator)

	adminRoutes.HandleFunc("/rooms", adminHandler.Rooms).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/results", adminHandler.Results).Methods("GET", "OPTIONS")

	return r
}

func healthHandler(c *Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"backend": c.Backend,
			"rooms":   c.Game.RoomCount(),
		})
	}
}

func corsMiddleware(allowedOrigins string) mux.MiddlewareFunc {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
