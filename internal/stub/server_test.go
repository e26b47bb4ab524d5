package stub

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fixed := time.Unix(1700000000, 0)
	srv := httptest.NewServer(New(WithClock(func() time.Time { return fixed })).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func uploadBody(t *testing.T, field, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="leaf.jpg"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func decode(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body := decode(t, resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, resp.StatusCode)
		}
		if body["status"] != "healthy" || body["models_ready"] != true || body["api_v"] != APIVersion {
			t.Fatalf("GET %s body = %#v", path, body)
		}
		if body["timestamp"] != float64(1700000000) {
			t.Fatalf("timestamp = %v", body["timestamp"])
		}
		if resp.Header.Get("X-Process-Time") == "" {
			t.Fatalf("missing X-Process-Time header")
		}
	}
}

func TestLeafQuality(t *testing.T) {
	srv := newTestServer(t)
	img := []byte("\xff\xd8\xff\xe0 fake jpeg bytes")

	body, ct := uploadBody(t, "file", "image/jpeg", img)
	resp, err := http.Post(srv.URL+"/predict/leaf-quality", ct, body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	got := decode(t, resp.Body)
	class, conf, hash := ClassifyLeaf(img)
	if got["predicted_class"] != class {
		t.Fatalf("predicted_class = %v, want %v", got["predicted_class"], class)
	}
	if got["confidence"] != conf {
		t.Fatalf("confidence = %v, want %v", got["confidence"], conf)
	}
	if got["image_hash"] != hash {
		t.Fatalf("image_hash = %v", got["image_hash"])
	}
	if got["cached"] != false || got["prediction_type"] != "leaf_quality" {
		t.Fatalf("unexpected extras: %#v", got)
	}
}

func postLeaf(t *testing.T, url string, img []byte) map[string]any {
	t.Helper()
	body, ct := uploadBody(t, "file", "image/jpeg", img)
	resp, err := http.Post(url+"/predict/leaf-quality", ct, body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	return decode(t, resp.Body)
}

func TestLeafQuality_RepeatImageIsCached(t *testing.T) {
	srv := newTestServer(t)
	img := []byte("same leaf twice")

	first := postLeaf(t, srv.URL, img)
	second := postLeaf(t, srv.URL, img)
	if first["cached"] != false || second["cached"] != true {
		t.Fatalf("cached = %v then %v, want false then true", first["cached"], second["cached"])
	}
	for _, k := range []string{"predicted_class", "confidence", "image_hash"} {
		if first[k] != second[k] {
			t.Fatalf("%s changed on cache hit: %v vs %v", k, first[k], second[k])
		}
	}
	if other := postLeaf(t, srv.URL, []byte("another leaf")); other["cached"] != false {
		t.Fatalf("different image reported cached")
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "mulberry_stub_leaf_cache_hits_total 1") {
		t.Fatalf("metrics missing cache hit:\n%s", b)
	}
}

func TestLeafQuality_CacheEvictsOldest(t *testing.T) {
	s := New(WithCacheSize(2))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	postLeaf(t, srv.URL, []byte("a"))
	postLeaf(t, srv.URL, []byte("b"))
	postLeaf(t, srv.URL, []byte("c"))
	if n := s.cache.size(); n != 2 {
		t.Fatalf("cache size = %d, want 2", n)
	}
	if got := postLeaf(t, srv.URL, []byte("c")); got["cached"] != true {
		t.Fatalf("newest entry should still be cached")
	}
	if got := postLeaf(t, srv.URL, []byte("a")); got["cached"] != false {
		t.Fatalf("oldest entry should have been evicted")
	}
}

func TestNew_DefaultCacheSize(t *testing.T) {
	if got := New().cache.max; got != DefaultCacheSize {
		t.Fatalf("cache max = %d, want %d", got, DefaultCacheSize)
	}
}

func TestLeafQuality_Rejections(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		field       string
		contentType string
		want        int
	}{
		{name: "not an image", field: "file", contentType: "text/plain", want: http.StatusBadRequest},
		{name: "wrong field", field: "image", contentType: "image/jpeg", want: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := uploadBody(t, tt.field, tt.contentType, []byte("x"))
			resp, err := http.Post(srv.URL+"/predict/leaf-quality", ct, body)
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	resp, err := http.Post(srv.URL+"/predict/leaf-quality", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-multipart status = %d", resp.StatusCode)
	}
}

func TestClassifyLeaf_Deterministic(t *testing.T) {
	a1, c1, h1 := ClassifyLeaf([]byte("leaf"))
	a2, c2, h2 := ClassifyLeaf([]byte("leaf"))
	if a1 != a2 || c1 != c2 || h1 != h2 {
		t.Fatalf("ClassifyLeaf is not deterministic")
	}
	if c1 < 0.5 || c1 >= 1 {
		t.Fatalf("confidence %v outside [0.5, 1)", c1)
	}
}

func TestEstimateYield(t *testing.T) {
	tests := []struct {
		q, temp, hum float64
		want         float64
	}{
		{0.85, 25.5, 65, 68},
		{1, 25, 70, 75},
		{0, 50, 0, 10}, // floor
	}
	for _, tt := range tests {
		if got := EstimateYield(tt.q, tt.temp, tt.hum); got != tt.want {
			t.Errorf("EstimateYield(%v, %v, %v) = %v, want %v", tt.q, tt.temp, tt.hum, got, tt.want)
		}
	}
}

func TestYield(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/predict/yield", "application/json",
		strings.NewReader(`{"avg_quality":0.85,"temperature":25.5,"humidity":65}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	got := decode(t, resp.Body)
	if got["estimated_yield"] != float64(68) {
		t.Fatalf("estimated_yield = %v", got["estimated_yield"])
	}
	if got["prediction_type"] != "cocoon_yield" {
		t.Fatalf("prediction_type = %v", got["prediction_type"])
	}
}

func TestYield_BadInput(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{"{", `{"avg_quality":0.5}`} {
		resp, err := http.Post(srv.URL+"/predict/yield", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("body %q: status = %d", body, resp.StatusCode)
		}
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	out := string(b)
	if !strings.Contains(out, `mulberry_stub_requests_total{route="/health",status="200"} 1`) {
		t.Fatalf("metrics missing health counter:\n%s", out)
	}
}

func TestUnknownMethod(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/predict/yield")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}
