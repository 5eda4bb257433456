package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func TestBasicRouter(t *testing.T) {
	t.Run("method filtering", func(t *testing.T) {
		r := NewBasicRouter()
		r.HandleFunc("get", "/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("expected 200 pong, got %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodGet {
			t.Errorf("expected 405 with Allow: GET, got %d %q", rec.Code, rec.Header().Get("Allow"))
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected HEAD to be served, got %d", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if diff := cmp.Diff([]string{"first", "second", "handler"}, order); diff != "" {
			t.Errorf("middleware order mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

		out := buf.String()
		for _, want := range []string{"request", "path=/brew", "status=418"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected log output to contain %q, got %q", want, out)
			}
		}
	})

	t.Run("Recover", func(t *testing.T) {
		h := Recover(shared.DiscardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func newDataRouter(t *testing.T, names ...string) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "music"), 0755); err != nil {
		t.Fatalf("failed to create music dir: %v", err)
	}

	r := NewBasicRouter()
	r.Use(Recover(shared.DiscardLogger()), Logging(shared.DiscardLogger()))
	r.Handler(NewDataHandler(dir, names, nil))
	return r, dir
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestDataHandler(t *testing.T) {
	t.Run("serves exported catalog", func(t *testing.T) {
		h, dir := newDataRouter(t, "ongeki", "chunithm_jp")
		body := `{"name":"ongeki","songs":[]}`
		if err := os.WriteFile(filepath.Join(dir, "music", "ongeki.json"), []byte(body), 0644); err != nil {
			t.Fatalf("failed to write catalog: %v", err)
		}

		rec := get(h, "/data/music/ongeki.json")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}
		if rec.Body.String() != body {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("configured but not exported", func(t *testing.T) {
		h, _ := newDataRouter(t, "chunithm_jp")
		if rec := get(h, "/data/music/chunithm_jp.json"); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("unconfigured names are not served", func(t *testing.T) {
		h, dir := newDataRouter(t, "ongeki")
		if err := os.WriteFile(filepath.Join(dir, "music", "secret.json"), []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		for _, path := range []string{"/data/music/secret.json", "/data/music/ongeki.csv", "/data/music/ongeki"} {
			if rec := get(h, path); rec.Code != http.StatusNotFound {
				t.Errorf("%s: expected 404, got %d", path, rec.Code)
			}
		}
	})

	t.Run("sources listing", func(t *testing.T) {
		h, dir := newDataRouter(t, "maimai_jp", "ongeki")
		if err := os.WriteFile(filepath.Join(dir, "music", "ongeki.json"), []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to write catalog: %v", err)
		}

		rec := get(h, "/data/sources")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var infos []SourceInfo
		if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
			t.Fatalf("failed to decode listing: %v", err)
		}
		if len(infos) != 2 || infos[0].Name != "maimai_jp" || infos[1].Name != "ongeki" {
			t.Fatalf("unexpected listing %+v", infos)
		}
		if infos[0].Available || infos[0].Modified != nil {
			t.Errorf("maimai_jp should be unavailable, got %+v", infos[0])
		}
		if !infos[1].Available || infos[1].Modified == nil {
			t.Errorf("ongeki should be available, got %+v", infos[1])
		}
	})

	t.Run("health", func(t *testing.T) {
		h, _ := newDataRouter(t)
		rec := get(h, "/health")
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
			t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("read only", func(t *testing.T) {
		h, _ := newDataRouter(t, "ongeki")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/data/sources", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestServe(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	h, _ := newDataRouter(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, h, shared.DiscardLogger()) }()

	var resp *http.Response
	for range 50 {
		if resp, err = http.Get("http://" + addr + "/health"); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
