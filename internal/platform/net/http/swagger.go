package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the OpenAPI document at specPath and the swagger UI at /docs/*
func MountSwagger(r Router, enabled bool, specPath string, spec []byte) {
	if !enabled {
		return
	}
	r.Get(specPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(spec)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL(specPath)))
}
