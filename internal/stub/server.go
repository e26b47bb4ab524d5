// Package stub serves a local stand-in for the mulberry inference service.
//
// It answers the same three routes as the real backend with deterministic
// results: the leaf class is derived from a SHA-256 of the uploaded bytes and
// the yield comes from the closed-form formula the training data was
// generated with. Like the real backend, leaf predictions are remembered by
// image hash and a repeat upload is answered with "cached": true. It is meant
// for local development and tests.
package stub

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// APIVersion is reported by /health.
	APIVersion = "1.0.0"

	maxUploadBytes = 10 << 20
)

// LeafClasses are the labels the stub can predict.
var LeafClasses = []string{"Healthy", "Infected", "Nutrient Deficient"}

// Server is the stub service. Create it with New and mount Handler.
type Server struct {
	router    *mux.Router
	metrics   *metrics
	now       func() time.Time
	cacheSize int
	cache     *leafCache
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the time source used for timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithCacheSize bounds the number of leaf predictions kept by image hash.
// n <= 0 means DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(s *Server) { s.cacheSize = n }
}

// New builds the router with all routes registered.
func New(opts ...Option) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		metrics: newMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = newLeafCache(s.cacheSize)

	s.router.Use(s.observe)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/predict/leaf-quality", s.handleLeafQuality).Methods(http.MethodPost)
	s.router.HandleFunc("/predict/yield", s.handleYield).Methods(http.MethodPost)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// Registry exposes the Prometheus registry the stub records into.
func (s *Server) Registry() *prometheus.Registry { return s.metrics.registry }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"timestamp":    float64(s.now().UnixNano()) / 1e9,
		"models_ready": true,
		"api_v":        APIVersion,
	})
}

func (s *Server) handleLeafQuality(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeDetail(w, http.StatusBadRequest, "Failed to parse form.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Field 'file' is required.")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		writeDetail(w, http.StatusBadRequest, "File must be an image.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Failed to read upload.")
		return
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	pred, cached := s.cache.get(hash)
	if cached {
		s.metrics.cacheHits.Inc()
	} else {
		pred.class, pred.confidence = classifyDigest(sum)
		s.cache.put(hash, pred)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prediction_type": "leaf_quality",
		"predicted_class": pred.class,
		"confidence":      pred.confidence,
		"image_hash":      hash,
		"prediction_time": round4(s.now().Sub(start).Seconds()),
		"cached":          cached,
	})
}

type yieldRequest struct {
	AvgQuality  *float64 `json:"avg_quality"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
}

func (s *Server) handleYield(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var req yieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid JSON body.")
		return
	}
	if req.AvgQuality == nil || req.Temperature == nil || req.Humidity == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "avg_quality, temperature and humidity are required.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"prediction_type": "cocoon_yield",
		"estimated_yield": EstimateYield(*req.AvgQuality, *req.Temperature, *req.Humidity),
		"prediction_time": round4(s.now().Sub(start).Seconds()),
	})
}

// ClassifyLeaf picks a class and a confidence in [0.5, 1) from the image
// bytes. The same bytes always give the same answer.
func ClassifyLeaf(data []byte) (class string, confidence float64, hash string) {
	sum := sha256.Sum256(data)
	class, confidence = classifyDigest(sum)
	return class, confidence, hex.EncodeToString(sum[:])
}

func classifyDigest(sum [sha256.Size]byte) (string, float64) {
	idx := int(sum[0]) % len(LeafClasses)
	frac := float64(binary.BigEndian.Uint16(sum[1:3])) / 65536.0
	return LeafClasses[idx], round4(0.5 + frac/2)
}

// EstimateYield is the synthetic cocoon yield model: a 50 kg base, +25 per
// quality point, penalties for distance from 25 °C and 70 % humidity, and a
// 10 kg floor. The result is rounded to four decimals.
func EstimateYield(quality, temperature, humidity float64) float64 {
	y := 50 + 25*quality
	y -= math.Abs(temperature-25) * 1.5
	y -= math.Abs(humidity-70) * 0.5
	if y < 10 {
		y = 10
	}
	return round4(y)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// observe logs each request, records metrics and sets X-Process-Time.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		rec := &recorder{ResponseWriter: w, status: http.StatusOK, start: start, now: s.now}
		next.ServeHTTP(rec, r)

		elapsed := s.now().Sub(start)
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())
		logf(route, "method=%s status=%d duration=%.4fs", r.Method, rec.status, elapsed.Seconds())
	})
}

// recorder captures the status code and stamps X-Process-Time just before
// the header is sent.
type recorder struct {
	http.ResponseWriter
	status      int
	start       time.Time
	now         func() time.Time
	wroteHeader bool
}

func (r *recorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = code
	r.Header().Set("X-Process-Time", strconv.FormatFloat(r.now().Sub(r.start).Seconds(), 'f', 6, 64))
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}
