// Package server exposes the ingestion endpoint and the dashboard API.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"resource-tracker/internal/analytics"
	"resource-tracker/internal/config"
	"resource-tracker/internal/directory"
	"resource-tracker/internal/ingest"
	"resource-tracker/internal/model"
	"resource-tracker/internal/store"
)

// Server routes HTTP traffic to the ingestion pipeline and the dashboard
// queries. It owns no network listener; the caller wires Handler() into an
// http.Server.
type Server struct {
	cfg       config.ServerConfig
	ingest    *ingest.Service
	store     *store.Store
	agg       *analytics.Aggregator
	engine    *analytics.Engine
	directory *directory.Store
	logger    zerolog.Logger
	router    chi.Router
}

// New creates a Server with all routes registered.
func New(cfg config.ServerConfig, svc *ingest.Service, st *store.Store, agg *analytics.Aggregator, engine *analytics.Engine, dir *directory.Store, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		ingest:    svc,
		store:     st,
		agg:       agg,
		engine:    engine,
		directory: dir,
		logger:    logger.With().Str("component", "server").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/admin", s.handleIngest)
	r.Post("/admin/", s.handleIngest)

	r.Route("/api", func(r chi.Router) {
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/users", s.handleUsers)
		r.Get("/user/{key}", s.handleUser)
		r.Get("/device/{id}/logs", s.handleDeviceLogs)

		r.Route("/directory", func(r chi.Router) {
			r.Get("/users", s.handleDirectoryUsers)
			r.Get("/user/{id}", s.handleDirectoryUser)
		})
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", clientIP(r)).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Msg("request")
	})
}

// handleIngest receives one raw log payload and runs it through the
// ingestion pipeline.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Status:  "error",
			Message: "payload too large",
		})
		return
	}

	rec, err := s.ingest.Ingest(body, clientIP(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"user_id": rec.IdentityKey,
		"message": fmt.Sprintf("Log processed and stored for %s", rec.IdentityKey),
	})
}

// handleAnalytics returns the combined dashboard analytics: directory
// distributions plus derived resource usage.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	samples := s.agg.Samples(s.store.GetAll())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_device_count":     s.directory.DevicesPerUser(),
		"category_distribution": s.directory.CategoryDistribution(),
		"status_distribution":   s.directory.StatusDistribution(),
		"resource_usage":        samples,
	})
}

// handleAlerts evaluates current usage against the alert thresholds.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	samples := s.agg.Samples(s.store.GetAll())
	alerts := s.engine.Evaluate(samples)
	if alerts == nil {
		alerts = []model.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

// handleUsers lists all tracked identities.
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	summaries := s.store.GetAll()

	type userEntry struct {
		UserID       string      `json:"user_id"`
		Username     string      `json:"username,omitempty"`
		ComputerName string      `json:"computer_name,omitempty"`
		LastUpdated  interface{} `json:"last_updated,omitempty"`
	}

	users := make([]userEntry, 0, len(summaries))
	for _, key := range s.store.Keys() {
		sum := summaries[key]
		entry := userEntry{
			UserID:       key,
			Username:     sum.Username,
			ComputerName: sum.ComputerName,
		}
		if !sum.LastUpdated.IsZero() {
			entry.LastUpdated = sum.LastUpdated
		}
		users = append(users, entry)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_users": len(users),
		"users":       users,
	})
}

// handleUser returns the stored summary for one identity key.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	sum, err := s.store.GetOne(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("User '%s' not found", key))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sum)
}

// handleDeviceLogs resolves a directory device to its tracked summary via
// the serial number.
func (s *Server) handleDeviceLogs(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid device id")
		return
	}

	device := s.directory.DeviceByID(uint(id))
	if device == nil || device.Serial == "" {
		writeError(w, http.StatusNotFound, "Device not found")
		return
	}

	logData, err := s.store.FindBySerial(device.Serial)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"device":   device,
		"log_data": logData,
	})
}

// handleDirectoryUsers lists directory users with device and activity stats.
func (s *Server) handleDirectoryUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.directory.ListUsers())
}

// handleDirectoryUser returns one directory user with assigned devices.
func (s *Server) handleDirectoryUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user := s.directory.GetUser(uint(id))
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"devices": s.directory.UserDevices(uint(id)),
	})
}
