// Package api exposes the Caravan data contract over HTTP.
//
//	@title			Caravan Transport Data API
//	@version		1.0
//	@description	Read API for validated transport operation, vehicle, driver and organization records
//
// @host		localhost:8080
// @BasePath	/
package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"caravan/access"
	"caravan/config"
	"caravan/registry"
	"caravan/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// rateLimiterEntry holds a per-client rate limiter with last seen time.
type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Reloader rebuilds the registry from the data source and swaps it in. The
// bootstrap layer supplies the implementation.
type Reloader interface {
	Reload(ctx context.Context) (*storage.LoadReport, error)
}

// API holds the HTTP server over the access facades.
type API struct {
	router *mux.Router
	server *http.Server

	organizations *access.OrganizationAccess
	vehicles      *access.VehicleAccess
	drivers       *access.DriverAccess
	operations    *access.TransportOperationAccess

	handle   *registry.Handle
	reloader Reloader

	config *config.Config
	logger *zap.SugaredLogger

	rateLimiters   map[string]*rateLimiterEntry
	rateLimitersMu sync.Mutex
	stopCh         chan struct{}
}

// NewAPI creates the API server over a registry handle.
func NewAPI(handle *registry.Handle, reloader Reloader, cfg *config.Config, logger *zap.SugaredLogger) *API {
	a := &API{
		router:        mux.NewRouter(),
		organizations: access.NewOrganizationAccess(handle),
		vehicles:      access.NewVehicleAccess(handle),
		drivers:       access.NewDriverAccess(handle),
		operations:    access.NewTransportOperationAccess(handle),
		handle:        handle,
		reloader:      reloader,
		config:        cfg,
		logger:        logger,
		rateLimiters:  make(map[string]*rateLimiterEntry),
		stopCh:        make(chan struct{}),
	}
	a.setupRoutes()
	go a.cleanupRateLimiters()
	return a
}

// setupRoutes sets up the API routes.
func (a *API) setupRoutes() {
	a.router.Use(a.loggingMiddleware)
	if a.config.API.RateLimit > 0 {
		a.router.Use(a.rateLimitMiddleware)
	}

	v1 := a.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/organizations", a.listOrganizations).Methods("GET")
	v1.HandleFunc("/organizations/{countryCode}/{vat}", a.getOrganization).Methods("GET")
	v1.HandleFunc("/vehicles", a.listVehicles).Methods("GET")
	v1.HandleFunc("/vehicles/{countryCode}/{plateNumber}", a.getVehicle).Methods("GET")
	v1.HandleFunc("/vehicles/{countryCode}/{plateNumber}/insurance", a.listInsurance).Methods("GET")
	v1.HandleFunc("/vehicles/{countryCode}/{plateNumber}/insurance/{insuranceId}", a.getInsurance).Methods("GET")
	v1.HandleFunc("/vehicles/{countryCode}/{plateNumber}/revision", a.listRevisions).Methods("GET")
	v1.HandleFunc("/vehicles/{countryCode}/{plateNumber}/revision/{revisionId}", a.getRevision).Methods("GET")
	v1.HandleFunc("/drivers", a.listDrivers).Methods("GET")
	v1.HandleFunc("/drivers/{countryCode}/{vat}", a.getDriver).Methods("GET")
	v1.HandleFunc("/drivers/{countryCode}/{vat}/license", a.getLicense).Methods("GET")
	v1.HandleFunc("/drivers/{countryCode}/{vat}/tachograph-cards", a.listTachographCards).Methods("GET")
	v1.HandleFunc("/drivers/{countryCode}/{vat}/tachograph-cards/{cardId}", a.getTachographCard).Methods("GET")
	v1.HandleFunc("/drivers/{countryCode}/{vat}/traffic-violations", a.listTrafficViolations).Methods("GET")
	v1.HandleFunc("/drivers/{countryCode}/{vat}/traffic-violations/{violationId}", a.getTrafficViolation).Methods("GET")
	v1.HandleFunc("/transport-operations", a.listTransportOperations).Methods("GET")
	v1.HandleFunc("/transport-operations/{countryCode}/{plateNumber}", a.getTransportOperation).Methods("GET")

	a.router.HandleFunc("/api/reload", a.reloadDataset).Methods("POST")
	a.router.HandleFunc("/health", a.healthCheck).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the API server. It blocks until the server stops.
func (a *API) Start() error {
	a.server = &http.Server{
		Addr:         a.config.APIAddr(),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.API.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.API.WriteTimeout) * time.Second,
	}
	a.logger.Infow("API server listening", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Stop shuts the API server down gracefully.
func (a *API) Stop(ctx context.Context) error {
	close(a.stopCh)
	if a.server != nil {
		return a.server.Shutdown(ctx)
	}
	return nil
}

// Handler returns the routed handler, used by tests.
func (a *API) Handler() http.Handler {
	return a.router
}

// cleanupRateLimiters periodically drops limiters for clients not seen in
// the last hour.
func (a *API) cleanupRateLimiters() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.rateLimitersMu.Lock()
			for ip, entry := range a.rateLimiters {
				if time.Since(entry.lastSeen) > 1*time.Hour {
					delete(a.rateLimiters, ip)
				}
			}
			a.rateLimitersMu.Unlock()
		case <-a.stopCh:
			return
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
