// Package bind decodes and validates JSON request bodies into project errors
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	"attractor/internal/platform/validate"
)

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 8MB; analyze batches are large
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

// DefaultJSONOptions is used when ParseJSON gets no options
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 8 << 20, DisallowUnknown: true}
}

// ParseJSON decodes JSON into T, validates it, and maps failures to project errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := DefaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	if r.Body == nil || r.Body == http.NoBody {
		if o.AllowEmptyBody {
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Debug().Err(err).Msg("close request body")
		}
	}()

	var body io.Reader = r.Body
	if o.MaxBytes > 0 {
		body = io.LimitReader(r.Body, o.MaxBytes+1)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return zero, perr.Wrap(err, perr.ErrorCodeIO, "read body")
	}
	if o.MaxBytes > 0 && int64(len(raw)) > o.MaxBytes {
		return zero, perr.InvalidArgf("body exceeds %d bytes", o.MaxBytes)
	}
	if len(raw) == 0 {
		if o.AllowEmptyBody {
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}
	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if !isStruct(dst) {
		return dst, nil
	}
	if err := validate.Struct(dst); err != nil {
		if perr.IsCode(err, perr.ErrorCodeUnknown) {
			logger.C(r.Context()).Error().Err(err).Msg("validator internal error")
		}
		return zero, err
	}
	return dst, nil
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t != nil && t.Kind() == reflect.Struct
}
