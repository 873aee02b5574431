// Package frontend serves the signed-rank test and trace set analysis over a
// JSON HTTP API.
package frontend

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/pairedstats/infra/go/httputils"
	"github.com/pairedstats/infra/go/metrics2"
	"github.com/pairedstats/infra/go/sklog"
	"github.com/pairedstats/infra/signrank/go/compare"
	"github.com/pairedstats/infra/signrank/go/config"
	"github.com/pairedstats/infra/signrank/go/ingest"
	"github.com/pairedstats/infra/signrank/go/samplestats"
	"github.com/pairedstats/infra/signrank/go/stats"
)

const shutdownTimeout = 10 * time.Second

// RequestIDHeader carries the ID assigned to every API request.
const RequestIDHeader = "X-Request-Id"

// WilcoxonRequest is the body of POST /_/wilcoxon.
type WilcoxonRequest struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`

	// Sort overrides the configured sort strategy, "default" or "radix".
	Sort string `json:"sort,omitempty"`

	// HighThreshold overrides the configured high threshold.
	HighThreshold float64 `json:"high_threshold,omitempty"`
}

// WilcoxonResponse is the result of POST /_/wilcoxon.
type WilcoxonResponse struct {
	// Estimate holds the rank sums of negative and positive differences.
	Estimate   [2]float64      `json:"estimate"`
	PValue     float64         `json:"p_value"`
	EffectSize float64         `json:"effect_size"`
	Verdict    compare.Verdict `json:"verdict"`
}

// AnalyzeRequest is the body of POST /_/analyze.
type AnalyzeRequest struct {
	Before ingest.TraceSet `json:"before"`
	After  ingest.TraceSet `json:"after"`

	// Alpha overrides the configured significance level.
	Alpha float64 `json:"alpha,omitempty"`

	// All includes insignificant traces.
	All bool `json:"all,omitempty"`

	// Order is "[-]name", "[-]delta" or "[-]p".
	Order string `json:"order,omitempty"`

	Sort string `json:"sort,omitempty"`
}

// AnalyzeRow is one trace of an AnalyzeResponse.
type AnalyzeRow struct {
	Name       string            `json:"name"`
	Params     map[string]string `json:"params"`
	BeforeMean float64           `json:"before_mean"`
	AfterMean  float64           `json:"after_mean"`

	// Delta is the percentage change of the mean, null if not significant.
	Delta      *float64   `json:"delta"`
	PValue     float64    `json:"p_value"`
	EffectSize float64    `json:"effect_size"`
	Estimate   [2]float64 `json:"estimate"`
	Note       string     `json:"note,omitempty"`
}

// AnalyzeResponse is the result of POST /_/analyze.
type AnalyzeResponse struct {
	Rows    []AnalyzeRow `json:"rows"`
	Skipped int          `json:"skipped"`
}

// Frontend serves the API.
type Frontend struct {
	cfg     config.InstanceConfig
	limiter *rate.Limiter

	wilcoxonErrors metrics2.Counter
	analyzeErrors  metrics2.Counter
	pairs          metrics2.Float64SummaryMetric
}

// New returns a Frontend for the given validated configuration.
func New(cfg config.InstanceConfig) (*Frontend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps := cfg.Server.RequestsPerSecond; rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
	return &Frontend{
		cfg:            cfg,
		limiter:        limiter,
		wilcoxonErrors: metrics2.GetCounter("signrank_errors", map[string]string{"endpoint": "wilcoxon"}),
		analyzeErrors:  metrics2.GetCounter("signrank_errors", map[string]string{"endpoint": "analyze"}),
		pairs:          metrics2.GetFloat64SummaryMetric("signrank_pairs"),
	}, nil
}

// RegisterHandlers registers the API handlers on router.
func (f *Frontend) RegisterHandlers(router *chi.Mux) {
	router.Post("/_/wilcoxon", f.wilcoxonHandler)
	router.Post("/_/analyze", f.analyzeHandler)
}

// Handler returns the complete HTTP handler including request logging, gzip,
// CORS, rate limiting and health checks.
func (f *Frontend) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(f.limitRate, requestID)
	f.RegisterHandlers(router)
	var h http.Handler = router
	if len(f.cfg.Server.AllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: f.cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(h)
	}
	return httputils.Healthz(httputils.LoggingGzipRequestResponse(h))
}

// limitRate rejects requests above the configured rate with 429.
func (f *Frontend) limitRate(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !f.limiter.Allow() {
			httputils.ReportError(w, errors.Errorf("rate limit of %v/s exceeded", f.limiter.Limit()), "Too many requests.", http.StatusTooManyRequests)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// requestID tags the request and the response with a fresh ID.
func requestID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)
		sklog.Debugf("Request %s: %s %s", id, r.Method, r.URL.Path)
		h.ServeHTTP(w, r)
	})
}

// Serve listens on the configured port until ctx is cancelled.
func (f *Frontend) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:         f.cfg.Server.Port,
		Handler:      f.Handler(),
		ReadTimeout:  f.cfg.Server.ReadTimeout.Duration,
		WriteTimeout: f.cfg.Server.WriteTimeout.Duration,
	}
	errCh := make(chan error, 1)
	go func() {
		sklog.Infof("Ready to serve on http://localhost%s", f.cfg.Server.Port)
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return errors.Wrap(err, "serving HTTP")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down HTTP server")
	}
	return nil
}

func (f *Frontend) wilcoxonHandler(w http.ResponseWriter, r *http.Request) {
	var req WilcoxonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.wilcoxonErrors.Inc(1)
		httputils.ReportError(w, err, "Failed to decode JSON.", http.StatusBadRequest)
		return
	}
	if f.cfg.Server.MaxPairs > 0 && len(req.X) > f.cfg.Server.MaxPairs {
		f.wilcoxonErrors.Inc(1)
		httputils.ReportError(w, errors.Errorf("%d pairs", len(req.X)), "Too many pairs.", http.StatusBadRequest)
		return
	}
	sortName := req.Sort
	if sortName == "" {
		sortName = f.cfg.Sort
	}
	sortStrategy, err := stats.SortStrategyByName[float64](sortName)
	if err != nil {
		f.wilcoxonErrors.Inc(1)
		httputils.ReportError(w, err, "Unknown sort strategy.", http.StatusBadRequest)
		return
	}
	highThreshold := req.HighThreshold
	if highThreshold == 0 {
		highThreshold = f.cfg.HighThreshold
	}

	res, err := compare.ComparePairedWithSort(req.X, req.Y, highThreshold, sortStrategy)
	if errors.Is(err, stats.ErrLengthMismatch) {
		f.wilcoxonErrors.Inc(1)
		httputils.ReportError(w, err, "x and y must have the same length.", http.StatusBadRequest)
		return
	}
	if err != nil {
		f.wilcoxonErrors.Inc(1)
		httputils.ReportError(w, err, "Failed to run the signed-rank test.", http.StatusInternalServerError)
		return
	}
	f.pairs.Observe(float64(len(req.X)))
	httputils.WriteJSON(w, WilcoxonResponse{
		Estimate:   res.Estimate,
		PValue:     res.PValue,
		EffectSize: res.EffectSize,
		Verdict:    res.Verdict,
	})
}

func (f *Frontend) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.analyzeErrors.Inc(1)
		httputils.ReportError(w, err, "Failed to decode JSON.", http.StatusBadRequest)
		return
	}
	before, err := req.Before.ToSamples()
	if err != nil {
		f.analyzeErrors.Inc(1)
		httputils.ReportError(w, err, "Invalid before traces.", http.StatusBadRequest)
		return
	}
	after, err := req.After.ToSamples()
	if err != nil {
		f.analyzeErrors.Inc(1)
		httputils.ReportError(w, err, "Invalid after traces.", http.StatusBadRequest)
		return
	}
	order, err := samplestats.OrderByName(req.Order)
	if err != nil {
		f.analyzeErrors.Inc(1)
		httputils.ReportError(w, err, "Unknown order.", http.StatusBadRequest)
		return
	}
	sortName := req.Sort
	if sortName == "" {
		sortName = f.cfg.Sort
	}
	if _, err := stats.SortStrategyByName[float64](sortName); err != nil {
		f.analyzeErrors.Inc(1)
		httputils.ReportError(w, err, "Unknown sort strategy.", http.StatusBadRequest)
		return
	}
	alpha := req.Alpha
	if alpha == 0 {
		alpha = f.cfg.Alpha
	}

	result, err := samplestats.Analyze(r.Context(), samplestats.Config{
		Alpha:       alpha,
		All:         req.All,
		Order:       order,
		Sort:        sortName,
		Concurrency: f.cfg.Concurrency,
	}, before, after)
	if err != nil {
		f.analyzeErrors.Inc(1)
		httputils.ReportError(w, err, "Failed to analyze traces.", http.StatusInternalServerError)
		return
	}
	httputils.WriteJSON(w, toAnalyzeResponse(result))
}

func toAnalyzeResponse(result samplestats.Result) AnalyzeResponse {
	ret := AnalyzeResponse{
		Rows:    make([]AnalyzeRow, 0, len(result.Rows)),
		Skipped: result.Skipped,
	}
	for _, row := range result.Rows {
		ar := AnalyzeRow{
			Name:       row.Name,
			Params:     row.Params,
			BeforeMean: row.Samples[0].Mean,
			AfterMean:  row.Samples[1].Mean,
			PValue:     row.P,
			EffectSize: row.EffectSize,
			Estimate:   row.Estimate,
			Note:       row.Note,
		}
		if !math.IsNaN(row.Delta) {
			delta := row.Delta
			ar.Delta = &delta
		}
		ret.Rows = append(ret.Rows, ar)
	}
	return ret
}
