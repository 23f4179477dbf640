package uploads_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/copyfy/copyfy/internal/media"
	"github.com/copyfy/copyfy/internal/uploads"
	"github.com/copyfy/copyfy/pkg/identity"
)

func setupMux(h *uploads.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

type batchPart struct {
	name string
	mime string
	data []byte
}

func batchRequest(t *testing.T, fields map[string]string, parts []batchPart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field failed: %v", err)
		}
	}

	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename="%s"`, p.name))
		header.Set("Content-Type", p.mime)
		header.Set("Last-Modified", "1700000000000")

		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part failed: %v", err)
		}
		if _, err := part.Write(p.data); err != nil {
			t.Fatalf("write part failed: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/media/batch", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func profileFields() map[string]string {
	return map[string]string{
		"title":           "Sunset",
		"tags":            "beach, sky",
		"license":         "CC0-1.0",
		"rightsConfirmed": "true",
	}
}

func newBatchHandler(creator uploads.Creator, ident identity.Provider, refresh uploads.Refresher) *uploads.Handler {
	return uploads.NewHandler(
		creator,
		ident,
		refresh,
		nil,
		testLogger(),
		50*1024*1024,
		20,
	)
}

func TestBatchEndpoint(t *testing.T) {
	creator := &mockCreator{
		createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
			return commitRecord(cmd), nil
		},
	}
	refresh := &mockRefresher{}

	mux := setupMux(newBatchHandler(creator, signedIn(t), refresh))
	req := batchRequest(t, profileFields(), []batchPart{
		{"a.jpg", "image/jpeg", []byte("jpegdata")},
		{"b.png", "image/png", []byte("pngdata")},
		{"doc.pdf", "application/pdf", []byte("pdfdata")},
	})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp uploads.BatchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if resp.Report.Succeeded != 2 || resp.Report.Total != 2 {
		t.Errorf("report = %d/%d, want 2/2", resp.Report.Succeeded, resp.Report.Total)
	}
	if len(resp.Rejected) != 1 || resp.Rejected[0] != "doc.pdf" {
		t.Errorf("Rejected = %v, want [doc.pdf]", resp.Rejected)
	}
	if refresh.resets != 1 {
		t.Errorf("refresh fired %d times, want 1", refresh.resets)
	}
}

func TestBatchEndpointSignedOut(t *testing.T) {
	creator := &mockCreator{
		createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
			return commitRecord(cmd), nil
		},
	}

	signedOut := identity.NewAnonymous(testLogger())
	mux := setupMux(newBatchHandler(creator, signedOut, &mockRefresher{}))
	req := batchRequest(t, profileFields(), []batchPart{
		{"a.jpg", "image/jpeg", []byte("jpegdata")},
	})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if len(creator.calls) != 0 {
		t.Error("no upload may start when signed out")
	}
}

func TestBatchEndpointRightsUnconfirmed(t *testing.T) {
	creator := &mockCreator{
		createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
			return commitRecord(cmd), nil
		},
	}

	fields := profileFields()
	fields["rightsConfirmed"] = "false"

	mux := setupMux(newBatchHandler(creator, signedIn(t), &mockRefresher{}))
	req := batchRequest(t, fields, []batchPart{
		{"a.jpg", "image/jpeg", []byte("jpegdata")},
	})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBatchEndpointEmpty(t *testing.T) {
	creator := &mockCreator{
		createFn: func(_ context.Context, cmd media.CreateCommand) (*media.Record, error) {
			return commitRecord(cmd), nil
		},
	}

	mux := setupMux(newBatchHandler(creator, signedIn(t), &mockRefresher{}))
	req := batchRequest(t, profileFields(), nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
