package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"itinerary-router/internal/config"
	"itinerary-router/internal/geocode"
	"itinerary-router/internal/handlers"
	"itinerary-router/internal/reorder"
	"itinerary-router/internal/route"
	"itinerary-router/internal/sqlite"
	"itinerary-router/internal/waypoints"
)

// Server wraps the HTTP server and all dependencies
type Server struct {
	httpServer *http.Server
	handler    *handlers.Handler
	db         *sqlite.Store
	listener   net.Listener
	addr       string
}

// New creates and initializes a new server (does not start it)
func New(cfg config.Config) (*Server, error) {
	log.Printf("Initializing data store...")
	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data store: %w", err)
	}

	var provider route.Provider
	if cfg.Routing.BaseURL != "" {
		provider = route.NewOSRMProvider(cfg.Routing.BaseURL, cfg.Routing.Timeout())
	} else {
		log.Printf("No routing provider configured, routes will use straight-line fallback")
	}

	routeCache := route.NewMemoryCache()
	routeStore := route.NewControllerStore(func() *route.Controller {
		return route.NewController(provider, routeCache, route.NewDebouncer(cfg.Routing.Debounce()))
	})

	var geocoder geocode.Geocoder
	if cfg.Geocoding.BaseURL != "" {
		geocoder = geocode.NewNominatimClient(cfg.Geocoding.BaseURL)
	}

	handler := &handlers.Handler{
		DB:        db,
		Reorder:   reorder.NewCoordinator(db.ScheduleItems(), db.ScheduleItems()),
		Waypoints: waypoints.NewResolver(db.Locations()),
		Routes:    routeStore,
		Geocoder:  geocoder,
	}

	mux := setupRoutes(handler)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      loggingMiddleware(corsMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
		db:         db,
		addr:       cfg.Server.Addr,
	}, nil
}

// Start starts the server and returns the actual address (useful for random port)
func (s *Server) Start() (string, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	actualAddr := listener.Addr().String()
	log.Printf("Starting server on %s", actualAddr)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return actualAddr, nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.db.Close()
}

// setupRoutes configures all HTTP routes
func setupRoutes(handler *handlers.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", handler.HandleHealthCheck)

	mux.HandleFunc("/api/v1/locations", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handler.HandleListLocations(w, r)
		case http.MethodPost:
			handler.HandleCreateLocation(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/locations/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/locations/" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		switch r.Method {
		case http.MethodGet:
			handler.HandleGetLocation(w, r)
		case http.MethodPut:
			handler.HandleUpdateLocation(w, r)
		case http.MethodDelete:
			handler.HandleDeleteLocation(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/address-search", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.HandleAddressSearch(w, r)
	})

	mux.HandleFunc("/api/v1/items/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/v1/items/")
		if rest == "" {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		if id, found := strings.CutSuffix(rest, "/comments"); found {
			switch r.Method {
			case http.MethodGet:
				handler.HandleListItemComments(w, r, id)
			case http.MethodPost:
				handler.HandleCreateItemComment(w, r, id)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		switch r.Method {
		case http.MethodGet:
			handler.HandleGetItem(w, r, rest)
		case http.MethodPatch:
			handler.HandlePatchItem(w, r, rest)
		case http.MethodDelete:
			handler.HandleDeleteItem(w, r, rest)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/v1/plans/", func(w http.ResponseWriter, r *http.Request) {
		planID, day, rest, ok := handlers.PlanDayFromPath(r.URL.Path)
		if !ok {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		switch rest {
		case "items":
			switch r.Method {
			case http.MethodGet:
				handler.HandleListDayItems(w, r, planID, day)
			case http.MethodPost:
				handler.HandleCreateDayItem(w, r, planID, day)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
		case "reorder":
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			handler.HandleReorder(w, r, planID, day)
		case "reorder/reset":
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			handler.HandleResetOrder(w, r, planID, day)
		case "order":
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			handler.HandleGetOrder(w, r, planID, day)
		case "route":
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			handler.HandleGetDayRoute(w, r, planID, day)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	return mux
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		duration := time.Since(start)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, lrw.statusCode, duration)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Only allow localhost origins (local development)
		if origin == "" ||
			strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:") {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
