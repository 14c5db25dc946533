// Package api exposes the optimizer over HTTP. Routing and response
// conventions: JSON bodies, method-qualified mux patterns, sentinel errors
// mapped to status codes.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"krishi-route/internal/config"
	"krishi-route/internal/db"
	"krishi-route/internal/engine"
	"krishi-route/internal/fuel"
	"krishi-route/internal/logger"
	"krishi-route/internal/mandi"
	"krishi-route/internal/profit"
)

// Server is the HTTP API server that connects the optimizer pipeline and
// the database.
type Server struct {
	cfg       *config.Config
	optimizer *engine.Optimizer
	oracle    *fuel.Oracle
	db        *db.DB // optional; nil disables history endpoints
}

// NewServer creates a Server over the given pipeline and settings.
func NewServer(cfg *config.Config, optimizer *engine.Optimizer, oracle *fuel.Oracle, database *db.DB) *Server {
	return &Server{cfg: cfg, optimizer: optimizer, oracle: oracle, db: database}
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/optimize", s.handleOptimize)
	mux.HandleFunc("GET /api/crops", s.handleGetCrops)
	mux.HandleFunc("GET /api/vehicles", s.handleGetVehicles)
	mux.HandleFunc("GET /api/fuel-price", s.handleGetFuelPrice)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/optimize/history", s.handleGetHistory)
	mux.HandleFunc("GET /api/optimize/history/{id}/results", s.handleGetHistoryResults)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// envelope is the common response wrapper.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	// Encode before touching the ResponseWriter so an encoding failure can
	// still become a clean 500 instead of a truncated 200.
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("API", fmt.Sprintf("Failed to encode response: %v", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Failed to encode response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError maps pipeline sentinels to status codes. Diagnostic detail is
// only attached in development mode.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var status int
	var msg string
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, engine.ErrNoCandidates):
		status = http.StatusNotFound
		msg = err.Error()
	default:
		status = http.StatusInternalServerError
		msg = "An error occurred during optimization"
		logger.Error("API", err.Error())
	}
	resp := envelope{Success: false, Message: msg}
	if status == http.StatusInternalServerError && s.cfg.Development {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var params engine.OptimizeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, fmt.Errorf("%w: malformed request body", engine.ErrInvalidInput))
		return
	}

	result, err := s.optimizer.Optimize(r.Context(), params, s.cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Message: "Optimization completed successfully",
		Data: map[string]interface{}{
			"metadata": result.Metadata,
			"optimization": map[string]interface{}{
				"bestMandi":          result.Decision.BestMandi,
				"localMandi":         result.Decision.LocalMandi,
				"extraProfit":        result.Decision.ExtraProfit,
				"recommendation":     result.Decision.Recommendation,
				"worthExtraDistance": result.Decision.WorthExtraDistance,
				"perishability":      result.Decision.Perishability,
				"poolOpportunities":  result.PoolOpportunities,
				"activePoolPartner":  result.ActivePoolPartner,
			},
			"results": result.Results,
		},
	})
}

// cropInfo is one selectable crop with its display name.
type cropInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleGetCrops(w http.ResponseWriter, r *http.Request) {
	crops := mandi.Crops()
	out := make([]cropInfo, 0, len(crops))
	for _, c := range crops {
		out = append(out, cropInfo{
			Name:        c,
			DisplayName: strings.ToUpper(c[:1]) + c[1:],
		})
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    map[string]interface{}{"crops": out},
	})
}

func (s *Server) handleGetVehicles(w http.ResponseWriter, r *http.Request) {
	fuelPrice := s.oracle.Price()
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data: map[string]interface{}{
			"vehicles":  profit.AvailableVehicles(fuelPrice),
			"fuelPrice": fuelPrice,
		},
	})
}

func (s *Server) handleGetFuelPrice(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"price":       s.oracle.Price(),
		"currency":    "INR",
		"unit":        "Litre",
		"type":        "Diesel",
		"lastUpdated": s.oracle.LastUpdated().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Krishi Route API is running",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"usingMockData": s.cfg.UseMockData,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]interface{}{"runs": []db.RunRecord{}}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    map[string]interface{}{"runs": s.db.GetRuns(limit)},
	})
}

func (s *Server) handleGetHistoryResults(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]interface{}{"results": []profit.Result{}}})
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid run id"})
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    map[string]interface{}{"results": s.db.GetRunResults(id)},
	})
}
