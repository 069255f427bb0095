package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeConfiguration, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeMalformedRecord, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodeIO, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestCodeString(t *testing.T) {
	if got := ErrorCodeConfiguration.String(); got != "configuration" {
		t.Fatalf("String() = %q", got)
	}
	if got := ErrorCodeMalformedRecord.String(); got != "malformed_record" {
		t.Fatalf("String() = %q", got)
	}
	if got := ErrorCode(500).String(); got != "code(500)" {
		t.Fatalf("String() out of range = %q", got)
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad stuff")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeJSON, "bad json %d", 12)
	if got := e2.Error(); got != "bad json 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeDB, "db failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeConfiguration, "profile %s", "default")
	if want := "profile default: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}
	if got, ok := As(e4); !ok || got.Code() != ErrorCodeConfiguration || got.Message() != "profile default" {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	e5 := Wrap(src, ErrorCodeInvalidArgument, "oops")
	e6 := WithField(e5, "window")
	e7 := WithOp(e6, "validate")
	if fe, ok := As(e6); !ok || fe.Field() != "window" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "validate" {
		t.Fatalf("WithOp failed")
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if WithField(src, "x") != src {
		t.Fatalf("WithField on foreign error should return it unchanged")
	}

	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) expected zero, got %+v", wf)
	}
	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom(foreign) mismatch: %+v", wf)
	}
	if wf := WireFrom(e4); wf.Code != ErrorCodeConfiguration || wf.Message != "profile default" {
		t.Fatalf("WireFrom(ours) mismatch: %+v", wf)
	}

	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) status = %d", st)
	}
	if st, w := HTTP(Malformedf("line %d", 3)); st != http.StatusBadRequest || w.Message != "line 3" {
		t.Fatalf("HTTP(malformed) = %d %+v", st, w)
	}

	if !IsCode(Configf("x"), ErrorCodeConfiguration) ||
		!IsCode(Malformedf("x"), ErrorCodeMalformedRecord) ||
		!IsCode(NotFoundf("x"), ErrorCodeNotFound) ||
		!IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(DBf("x"), ErrorCodeDB) ||
		!IsCode(JSONErrf("x"), ErrorCodeJSON) ||
		!IsCode(PanicErrf("x"), ErrorCodePanic) ||
		!IsCode(Unavailablef("x"), ErrorCodeUnavailable) ||
		!IsCode(Internalf("x"), ErrorCodeUnknown) {
		t.Fatalf("sugar helpers code mismatch")
	}

	if WrapIf(nil, ErrorCodeDB, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	if WrapIf(src, ErrorCodeDB, "db") == nil {
		t.Fatalf("WrapIf(non-nil) should wrap")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got == nil || got.Error() != "root" {
		t.Fatalf("Root() failed, got %v", got)
	}
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound code mismatch")
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{Configf("bad window"), 2},
		{InvalidArgf("bad flag"), 2},
		{Wrap(Configf("inner"), ErrorCodeIO, "outer"), 1},
		{New(ErrorCodeIO, "disk"), 1},
		{stderrs.Join(New(ErrorCodeDB, "sink"), Configf("cfg")), 1},
		{stderrs.New("plain"), 1},
	}
	for i, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Fatalf("case %d: ExitCode(%v) = %d, want %d", i, c.err, got, c.want)
		}
	}
}
