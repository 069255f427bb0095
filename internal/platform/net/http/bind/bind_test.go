package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/net/http/bind"
)

type payload struct {
	Text string `json:"text" validate:"required"`
	Hour *int   `json:"hour,omitempty" validate:"omitempty,min=0,max=23"`
}

func req(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		opt   *bind.JSONOptions
		code  perr.ErrorCode
		field string
	}{
		{name: "ok", body: `{"text":"a","hour":3}`},
		{name: "required", body: `{}`, code: perr.ErrorCodeValidation, field: "text"},
		{name: "hour", body: `{"text":"a","hour":24}`, code: perr.ErrorCodeValidation, field: "hour"},
		{name: "bad json", body: `{"text":`, code: perr.ErrorCodeJSON},
		{name: "unknown", body: `{"text":"a","z":1}`, code: perr.ErrorCodeJSON},
		{name: "unknown allowed", body: `{"text":"a","z":1}`, opt: &bind.JSONOptions{}},
		{name: "empty", body: ``, code: perr.ErrorCodeJSON},
		{name: "too big", body: `{"text":"abcdefghij"}`, opt: &bind.JSONOptions{MaxBytes: 8}, code: perr.ErrorCodeInvalidArgument},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var opts []bind.JSONOptions
			if c.opt != nil {
				opts = append(opts, *c.opt)
			}
			got, err := bind.ParseJSON[payload](req(c.body), opts...)
			if c.code == perr.ErrorCodeUnknown {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.Text != "a" {
					t.Fatalf("got %+v", got)
				}
				return
			}
			if !perr.IsCode(err, c.code) {
				t.Fatalf("code = %v want %v (%v)", perr.CodeOf(err), c.code, err)
			}
			if e, _ := perr.As(err); c.field != "" && e.Field() != c.field {
				t.Fatalf("field = %q want %q", e.Field(), c.field)
			}
		})
	}
}

func TestParseJSON_EmptyAllowed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	if _, err := bind.ParseJSON[payload](r, bind.JSONOptions{AllowEmptyBody: true}); err != nil {
		t.Fatalf("empty allowed: %v", err)
	}
}

func TestParseJSON_NonStruct(t *testing.T) {
	got, err := bind.ParseJSON[[]string](req(`["a","b"]`))
	if err != nil || len(got) != 2 {
		t.Fatalf("got %v %v", got, err)
	}
}
