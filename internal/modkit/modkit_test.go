package modkit_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"attractor/internal/modkit"
	phttp "attractor/internal/platform/net/http"
)

func TestBuild_Defaults(t *testing.T) {
	b := modkit.Build()
	if b.Subrouter == nil || b.Register == nil {
		t.Fatalf("hooks must default to no-ops")
	}
	if b.Name != "" || b.Prefix != "" || len(b.Mw) != 0 || b.Ports != nil {
		t.Fatalf("unexpected defaults %+v", b)
	}
}

func TestBuild_OptionsAndMount(t *testing.T) {
	var order []string
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "mw")
			next.ServeHTTP(w, r)
		})
	}
	b := modkit.Build(
		modkit.WithName("analyze"),
		modkit.WithPrefix("/analyze"),
		modkit.WithMiddlewares(mw),
		modkit.WithPorts(42),
		modkit.WithSubrouter(func(r phttp.Router) phttp.Router {
			order = append(order, "sub")
			return r
		}),
		modkit.WithRegister(func(r phttp.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "extra") })
		}),
	)
	if b.Name != "analyze" || b.Ports != 42 {
		t.Fatalf("built = %+v", b)
	}

	root := phttp.AdaptChi(chi.NewRouter())
	b.Mount(root, func(r phttp.Router) {
		r.Get("/own", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "own") })
	})

	for path, want := range map[string]string{"/analyze/own": "own", "/analyze/extra": "extra"} {
		rr := httptest.NewRecorder()
		root.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Body.String() != want {
			t.Fatalf("%s = %q", path, rr.Body.String())
		}
	}
	if order[0] != "sub" || order[1] != "mw" {
		t.Fatalf("order = %v", order)
	}
}

func TestBuilt_MountWithoutPrefix(t *testing.T) {
	root := phttp.AdaptChi(chi.NewRouter())
	modkit.Build(modkit.WithName("flat")).Mount(root, func(r phttp.Router) {
		r.Get("/flat", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "flat") })
	})
	rr := httptest.NewRecorder()
	root.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/flat", nil))
	if rr.Body.String() != "flat" {
		t.Fatalf("/flat = %d %q", rr.Code, rr.Body.String())
	}
}

func TestDeps_Logger(t *testing.T) {
	if (modkit.Deps{}).Logger("x") == nil {
		t.Fatal("expected fallback logger")
	}
}
