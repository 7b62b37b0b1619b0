package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"youtube_trend_collector/config"
	deliverycron "youtube_trend_collector/internal/delivery/cron"
	"youtube_trend_collector/internal/domain"
	"youtube_trend_collector/internal/logger"
	"youtube_trend_collector/internal/usecase"
)

// Server exposes a lightweight REST API for keyword management, manual
// collection triggers and trend visibility.
type Server struct {
	cfg       *config.Config
	keywords  domain.KeywordRepository
	trends    domain.TrendRepository
	runs      domain.CollectionRunRepository
	collector *usecase.Collector
	scheduler *deliverycron.Scheduler
	server    *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg *config.Config,
	keywordRepo domain.KeywordRepository,
	trendRepo domain.TrendRepository,
	runRepo domain.CollectionRunRepository,
	collector *usecase.Collector,
	scheduler *deliverycron.Scheduler,
) *Server {
	mux := http.NewServeMux()
	s := &Server{
		cfg:       cfg,
		keywords:  keywordRepo,
		trends:    trendRepo,
		runs:      runRepo,
		collector: collector,
		scheduler: scheduler,
	}

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/keywords", s.handleKeywords)
	mux.HandleFunc("/api/keywords/", s.handleKeywordActions)
	mux.HandleFunc("/api/collect", s.handleCollectAll)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/trends", s.handleTrends)
	mux.HandleFunc("/api/scheduler", s.handleScheduler)

	s.server = &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: loggingMiddleware(mux),
	}
	return s
}

// Start begins serving HTTP requests in a separate goroutine.
func (s *Server) Start() error {
	if s.cfg.ServerPort == "" {
		return fmt.Errorf("server port is not configured")
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Printf("http api server stopped with error: %v", err)
		}
	}()
	logger.Info().Printf("HTTP API server listening on %s", s.server.Addr)
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listKeywords(w, r)
	case http.MethodPost:
		s.createKeyword(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleKeywordActions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/keywords/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]

	if len(parts) == 2 && r.Method == http.MethodPost {
		switch parts[1] {
		case "activate":
			s.setKeywordActive(w, id, true)
			return
		case "deactivate":
			s.setKeywordActive(w, id, false)
			return
		case "collect":
			s.collectKeyword(w, r, id)
			return
		}
	}

	http.NotFound(w, r)
}

func (s *Server) listKeywords(w http.ResponseWriter, _ *http.Request) {
	keywords, err := s.keywords.GetAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]keywordResponse, 0, len(keywords))
	for _, keyword := range keywords {
		out = append(out, toKeywordResponse(keyword))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) createKeyword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		IsActive *bool  `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := s.keywords.GetByName(req.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "keyword already exists")
		return
	}

	keyword := &domain.Keyword{
		Name:     req.Name,
		Category: req.Category,
		IsActive: true,
	}
	if req.IsActive != nil {
		keyword.IsActive = *req.IsActive
	}

	if err := s.keywords.Save(keyword); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, toKeywordResponse(keyword))
}

func (s *Server) setKeywordActive(w http.ResponseWriter, id string, active bool) {
	if err := s.keywords.SetActive(id, active); err != nil {
		if errors.Is(err, domain.ErrKeywordNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := "deactivated"
	if active {
		status = "activated"
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) collectKeyword(w http.ResponseWriter, r *http.Request, id string) {
	limit := s.cfg.ResultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	result, err := s.collector.Collect(r.Context(), id, limit)
	if err != nil {
		if errors.Is(err, domain.ErrKeywordNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCollectAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	// Full runs take minutes; run in the background and return immediately.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if _, err := s.collector.CollectAll(ctx, s.cfg.ResultLimit); err != nil {
			logger.Error().Printf("manual collection run failed: %v", err)
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := s.runs.GetRecent(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunResponse(run))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	keywordID := r.URL.Query().Get("keyword_id")
	if keywordID == "" {
		respondError(w, http.StatusBadRequest, "keyword_id is required")
		return
	}

	date := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	agg, err := s.trends.GetByKey(keywordID, date, domain.TrendPeriodDaily)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if agg == nil {
		respondError(w, http.StatusNotFound, "no aggregate for that keyword and date")
		return
	}
	respondJSON(w, http.StatusOK, toTrendResponse(agg))
}

func (s *Server) handleScheduler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(s.scheduler.State())})
}

type keywordResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toKeywordResponse(k *domain.Keyword) keywordResponse {
	return keywordResponse{
		ID:        k.ID,
		Name:      k.Name,
		Category:  k.Category,
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt,
	}
}

type runResponse struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	KeywordCount int       `json:"keyword_count"`
	VideoCount   int       `json:"video_count"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
}

func toRunResponse(run *domain.CollectionRun) runResponse {
	return runResponse{
		ID:           run.ID,
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
		KeywordCount: run.KeywordCount,
		VideoCount:   run.VideoCount,
		Status:       string(run.Status),
		Error:        run.Error,
	}
}

type trendResponse struct {
	ID         string `json:"id"`
	KeywordID  string `json:"keyword_id"`
	Date       string `json:"date"`
	Period     string `json:"period"`
	VideoCount int    `json:"video_count"`
	TotalViews int64  `json:"total_views"`
	AvgViews   int64  `json:"avg_views"`
	TopVideoID string `json:"top_video_id,omitempty"`
}

func toTrendResponse(agg *domain.TrendAggregate) trendResponse {
	return trendResponse{
		ID:         agg.ID,
		KeywordID:  agg.KeywordID,
		Date:       agg.Date.Format("2006-01-02"),
		Period:     string(agg.Period),
		VideoCount: agg.VideoCount,
		TotalViews: agg.TotalViews,
		AvgViews:   agg.AvgViews,
		TopVideoID: agg.TopVideoID,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter) {
	respondError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info().Printf("%s %s (%v)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
