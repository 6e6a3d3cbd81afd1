package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func Test_EncodeDecodeHandlers(t *testing.T) {
	svc := newTestService(t, &Config{MaxInputBytes: 64})
	mux := http.NewServeMux()
	svc.RegisterHTTP(mux)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/xncode/encode", strings.NewReader("é1"))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "xn--e91" {
		t.Fatalf("unexpected encode response: %d %q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type: %s", ct)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/xncode/encode?scheme=framed", strings.NewReader("é1"))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "xn--2e91" {
		t.Fatalf("unexpected framed encode response: %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/xncode/decode?scheme=framed", strings.NewReader("xn--2e91"))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "é1" {
		t.Fatalf("unexpected decode response: %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/xncode/decode?policy=reject", strings.NewReader("xn--zz"))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for rejected fragment, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/xncode/encode", strings.NewReader(strings.Repeat("a", 65)))
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/xncode/encode", nil)
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func Test_StatsHandlers(t *testing.T) {
	svc := newTestService(t, nil)
	rr := httptest.NewRecorder()
	svc.EncodeHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/xncode/encode", strings.NewReader("é")))

	rr = httptest.NewRecorder()
	svc.StatsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/xncode/stats?namespace=default", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("stats status: %d", rr.Code)
	}
	var usage Usage
	if err := json.Unmarshal(rr.Body.Bytes(), &usage); err != nil {
		t.Fatalf("failed to decode stats json: %v", err)
	}
	if usage.Encoded != 1 {
		t.Fatalf("expected 1 encode, got %+v", usage)
	}

	rr = httptest.NewRecorder()
	svc.StatsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/xncode/stats", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for wrong method, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	svc.StatsClearHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/xncode/stats/clear", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("clear status: %d", rr.Code)
	}
	var cleared struct {
		Namespace string `json:"namespace"`
		Cleared   bool   `json:"cleared"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &cleared)
	if !cleared.Cleared || cleared.Namespace != "default" {
		t.Fatalf("unexpected clear response: %+v", cleared)
	}
	if usage := svc.UsageStore().Get("default"); usage.Encoded != 0 {
		t.Fatalf("expected cleared usage, got %+v", usage)
	}
}
