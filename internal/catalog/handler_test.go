package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/copyfy/copyfy/internal/catalog"
	"github.com/copyfy/copyfy/internal/media"
)

func setupMux(h *catalog.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func postSearch(mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/media/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestSearchEndpoint(t *testing.T) {
	engine := catalog.NewEngine(fullPages(24), testLogger(), 24, 12, 0)
	mux := setupMux(catalog.NewHandler(engine, testLogger()))

	w := postSearch(mux, `{"search":"","license":"ALL","sort":"new","reset":true}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var result catalog.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(result.Items) != 24 || !result.HasMore || !result.Reset {
		t.Errorf("unexpected result: items=%d hasMore=%v reset=%v",
			len(result.Items), result.HasMore, result.Reset)
	}
}

func TestSearchEndpointIndexHint(t *testing.T) {
	searcher := &mockSearcher{
		searchFn: func(_ context.Context, q media.SearchQuery) ([]media.Record, error) {
			return nil, media.ErrIndexRequired
		},
	}
	engine := catalog.NewEngine(searcher, testLogger(), 24, 12, 0)
	mux := setupMux(catalog.NewHandler(engine, testLogger()))

	w := postSearch(mux, `{"search":"sea","reset":true}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}

	var payload map[string]string
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload["index_hint"] != catalog.IndexHint {
		t.Errorf("index_hint = %q, want %q", payload["index_hint"], catalog.IndexHint)
	}
}

func TestSearchEndpointBadBody(t *testing.T) {
	engine := catalog.NewEngine(fullPages(24), testLogger(), 24, 12, 0)
	mux := setupMux(catalog.NewHandler(engine, testLogger()))

	w := postSearch(mux, `{not json`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
