package workflow

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"medreport-probe/pkg/config"
	"medreport-probe/pkg/log"
)

type recordedRequest struct {
	Method    string
	Path      string
	Query     string
	RequestID string
	Body      map[string]interface{}
}

// fakeService 分析服务的测试替身：按 "METHOD path" 路由到处理函数并记录请求
type fakeService struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]func(body map[string]interface{}) (int, interface{})
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	fs := &fakeService{routes: map[string]func(map[string]interface{}) (int, interface{}){}}
	srv := httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeService) on(method, path string, fn func(body map[string]interface{}) (int, interface{})) {
	fs.routes[method+" "+path] = fn
}

func (fs *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	fs.mu.Lock()
	fs.requests = append(fs.requests, recordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		RequestID: r.Header.Get("X-Request-ID"),
		Body:      body,
	})
	fn, ok := fs.routes[r.Method+" "+r.URL.Path]
	fs.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	code, out := fn(body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	switch v := out.(type) {
	case nil:
	case string:
		_, _ = io.WriteString(w, v)
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (fs *fakeService) calls(method, path string) []recordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var out []recordedRequest
	for _, r := range fs.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (fs *fakeService) total() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Service.BaseURL = baseURL
	cfg.Service.Timeouts = config.TimeoutsConfig{
		Request:      5 * time.Second,
		Health:       5 * time.Second,
		ProbeAnalyze: 5 * time.Second,
		Probe:        5 * time.Second,
		Ping:         5 * time.Second,
	}
	cfg.Demo.ContactEmail = "demo@example.com"
	return cfg
}

// newTestDemo 返回写入 buf 的 Demo；暂停被替换为立即返回
func newTestDemo(baseURL string) (*Demo, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := testConfig(baseURL)
	logger := log.NewLoggerTo(&buf, &log.Config{Level: "info", Format: "console"})
	d := NewDemo(NewClient(cfg.Service), logger, cfg)
	return d, &buf
}

func linesWith(out, substr string) []string {
	var res []string
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, substr) {
			res = append(res, l)
		}
	}
	return res
}
