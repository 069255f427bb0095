package httpkit_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"attractor/internal/modkit/httpkit"
	"attractor/internal/platform/config"
	phttp "attractor/internal/platform/net/http"
)

type in struct {
	Name string `json:"name" validate:"required"`
}

func TestMountAPIV1_Sugar(t *testing.T) {
	root := phttp.AdaptChi(chi.NewRouter())
	httpkit.MountAPIV1(root, httpkit.CommonStack(httpkit.StackFromConfig(config.New())), func(api httpkit.Router) {
		httpkit.Get(api, "/ping", func(*http.Request) (any, error) { return "pong", nil })
		httpkit.PostJSON(api, "/hello", func(_ *http.Request, v in) (any, error) { return "hi " + v.Name, nil })
		httpkit.Post(api, "/touch", func(*http.Request) (any, error) { return httpkit.Created("t"), nil })
	})

	cases := []struct {
		method, path, body string
		status             int
		contains           string
	}{
		{http.MethodGet, "/v1/ping", "", http.StatusOK, `"data":"pong"`},
		{http.MethodPost, "/v1/hello", `{"name":"ada"}`, http.StatusOK, `"data":"hi ada"`},
		{http.MethodPost, "/v1/hello", `{}`, http.StatusBadRequest, `"field":"name"`},
		{http.MethodPost, "/v1/touch", "", http.StatusCreated, `"data":"t"`},
		{http.MethodGet, "/api/v1/ping", "", http.StatusNotFound, ""},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		root.Mux().ServeHTTP(rr, httptest.NewRequest(c.method, c.path, strings.NewReader(c.body)))
		if rr.Code != c.status || !strings.Contains(rr.Body.String(), c.contains) {
			t.Fatalf("%s %s = %d %q", c.method, c.path, rr.Code, rr.Body.String())
		}
	}
}

func TestStackFromConfig(t *testing.T) {
	t.Setenv("API_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("API_MAX_BODY_BYTES", "1024")
	o := httpkit.StackFromConfig(config.New())
	if len(o.Origins) != 2 || o.MaxBody != 1024 {
		t.Fatalf("options = %+v", o)
	}
}

func TestWithTimeout(t *testing.T) {
	root := phttp.AdaptChi(chi.NewRouter())
	httpkit.WithTimeout(root, 0, func(r httpkit.Router) {
		httpkit.Get(r, "/x", func(*http.Request) (any, error) { return 1, nil })
	})
	rr := httptest.NewRecorder()
	root.Mux().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}
