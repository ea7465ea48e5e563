package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"snowpool/internal/config"
	"snowpool/internal/export"
	"snowpool/internal/metrics"
	"snowpool/internal/models"
	"snowpool/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// HTTPServer exposes the marketplace as a JSON API.
type HTTPServer struct {
	cfg          config.APIConfig
	callerHeader string
	market       *service.Marketplace
	limiter      Limiter
	server       *http.Server
	log          zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, callerHeader string, market *service.Marketplace, limiter Limiter, logger *zerolog.Logger) *HTTPServer {
	if callerHeader == "" {
		callerHeader = models.DefaultCallerHeader
	}
	serverLogger := zerolog.Nop()
	if logger != nil {
		serverLogger = logger.With().Str("component", "http").Logger()
	}

	srv := &HTTPServer{
		cfg:          cfg,
		callerHeader: callerHeader,
		market:       market,
		limiter:      limiter,
		log:          serverLogger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.handleHealthz)
	mux.HandleFunc("GET /readyz", srv.handleReadyz)

	mux.HandleFunc("GET /api/v1/postal-areas", srv.handleListPostalAreas)
	mux.HandleFunc("GET /api/v1/postal-areas/{code}", srv.handleGetPostalArea)
	mux.HandleFunc("GET /api/v1/postal-areas/{code}/demand", srv.handleAreaDemand)

	mux.HandleFunc("POST /api/v1/service-requests", srv.handleSubmitServiceRequest)
	mux.HandleFunc("GET /api/v1/service-requests", srv.handleListServiceRequests)
	mux.HandleFunc("GET /api/v1/service-requests/{id}", srv.handleGetServiceRequest)
	mux.HandleFunc("PATCH /api/v1/service-requests/{id}/status", srv.handleUpdateRequestStatus)

	mux.HandleFunc("POST /api/v1/operator-services", srv.handleSubmitOperatorService)
	mux.HandleFunc("GET /api/v1/operator-services", srv.handleListOperatorServices)
	mux.HandleFunc("GET /api/v1/operator-services/{id}", srv.handleGetOperatorService)
	mux.HandleFunc("PATCH /api/v1/operator-services/{id}/availability", srv.handleSetAvailability)

	mux.HandleFunc("POST /api/v1/bookings", srv.handleCreateBooking)
	mux.HandleFunc("GET /api/v1/bookings", srv.handleListBookings)
	mux.HandleFunc("GET /api/v1/bookings/{id}", srv.handleGetBooking)
	mux.HandleFunc("GET /api/v1/bookings/active", srv.handleActiveBookings)
	mux.HandleFunc("GET /api/v1/bookings/active-count", srv.handleActiveBookingCount)
	mux.HandleFunc("GET /api/v1/bookings/counts", srv.handleBookingCounts)
	mux.HandleFunc("GET /api/v1/bookings/export", srv.handleExport)

	mux.HandleFunc("GET /api/v1/quote", srv.handleQuote)
	mux.HandleFunc("GET /api/v1/stats", srv.handleStats)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.loggingMiddleware(srv.rateLimitMiddleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.market.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *HTTPServer) handleListPostalAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := s.market.ListPostalAreas(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"postal_areas": areas})
}

func (s *HTTPServer) handleGetPostalArea(w http.ResponseWriter, r *http.Request) {
	area, err := s.market.GetPostalArea(r.Context(), r.PathValue("code"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, area)
}

func (s *HTTPServer) handleAreaDemand(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	demand, err := s.market.CurrentDemand(r.Context(), code)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, service.AreaDemand{PostalCode: code, CurrentDemand: demand})
}

func (s *HTTPServer) handleSubmitServiceRequest(w http.ResponseWriter, r *http.Request) {
	var input models.ServiceRequestInput
	if !decodeJSON(w, r, &input) {
		return
	}
	req, err := s.market.SubmitServiceRequest(r.Context(), callerFromRequest(r, s.callerHeader), input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *HTTPServer) handleListServiceRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.market.ListServiceRequests(r.Context(), queryValue(r, "postalCode"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"service_requests": requests})
}

func (s *HTTPServer) handleGetServiceRequest(w http.ResponseWriter, r *http.Request) {
	req, err := s.market.GetServiceRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.RequestStatus `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	req, err := s.market.UpdateServiceRequestStatus(r.Context(), callerFromRequest(r, s.callerHeader), r.PathValue("id"), body.Status)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleSubmitOperatorService(w http.ResponseWriter, r *http.Request) {
	var input models.OperatorServiceInput
	if !decodeJSON(w, r, &input) {
		return
	}
	svc, err := s.market.SubmitOperatorService(r.Context(), callerFromRequest(r, s.callerHeader), input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

func (s *HTTPServer) handleListOperatorServices(w http.ResponseWriter, r *http.Request) {
	services, err := s.market.ListOperatorServices(r.Context(), queryValue(r, "postalCode"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"operator_services": services})
}

func (s *HTTPServer) handleGetOperatorService(w http.ResponseWriter, r *http.Request) {
	svc, err := s.market.GetOperatorService(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *HTTPServer) handleSetAvailability(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Available *bool `json:"available"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Available == nil {
		writeError(w, http.StatusBadRequest, "available is required")
		return
	}
	svc, err := s.market.SetOperatorAvailability(r.Context(), callerFromRequest(r, s.callerHeader), r.PathValue("id"), *body.Available)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var input models.BookingInput
	if !decodeJSON(w, r, &input) {
		return
	}
	booking, err := s.market.CreateBooking(r.Context(), callerFromRequest(r, s.callerHeader), input)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.market.ListBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := s.market.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleActiveBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.market.ListActiveBookings(r.Context(), queryValue(r, "postalCode"), queryValue(r, "date"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleActiveBookingCount(w http.ResponseWriter, r *http.Request) {
	postalCode, date := queryValue(r, "postalCode"), queryValue(r, "date")
	count, err := s.market.ActiveBookingCount(r.Context(), postalCode, date)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PostalAreaBookingCount{
		PostalCode:          postalCode,
		BookingDate:         date,
		ActiveBookingsCount: count,
	})
}

func (s *HTTPServer) handleBookingCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.market.ListBookingCounts(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"counts": counts})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.Build(r.Context(), s.market)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(time.Now())))
	if err := f.Write(w); err != nil {
		s.log.Error().Err(err).Msg("write export")
	}
}

func (s *HTTPServer) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.market.Quote(r.Context(), queryValue(r, "postalCode"), models.YardSize(queryValue(r, "yardSize")))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.market.Stats(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"directory":         stats,
		"pricing":           s.market.Pricing(),
		"strict_validation": s.market.Strict(),
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := s.limiter.Allow(r.Context(), httpClientKey(r, s.callerHeader))
		if err != nil {
			s.log.Error().Err(err).Msg("rate limiter failed")
			allowed = true
		}
		if !allowed {
			metrics.IncRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		endpoint := r.Pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.IncHTTP(endpoint)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	statusCode := httpStatus(err)
	if statusCode == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, statusCode, "internal error")
		return
	}
	writeError(w, statusCode, err.Error())
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
