package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) *pgconn.PgError { return &pgconn.PgError{Code: code} }

func TestDBErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22001", ErrorCodeInvalidArgument},
		{"22003", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"42P01", ErrorCodeConfiguration},
		{"40001", ErrorCodeDB},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pgErr(c.code))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatalf("DBErrorCode should return ok=false for non-pg error")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("FromPostgres(nil) should be nil")
	}
	err := FromPostgres(fmt.Errorf("insert: %w", pgErr("23505")), "insert run")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("want duplicate key, got %v", CodeOf(err))
	}
	if !IsDuplicateKey(err) {
		t.Fatalf("IsDuplicateKey should see through wrapping")
	}
	if !IsCode(FromPostgres(stderrs.New("boom"), "x"), ErrorCodeDB) {
		t.Fatalf("non-pg error should map to DB")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), false},
		{"serialization", pgErr("40001"), true},
		{"deadlock", pgErr("40P01"), true},
		{"startup", pgErr("57P03"), true},
		{"unique", pgErr("23505"), false},
		{"commit text", stderrs.New("commit unexpectedly resulted in rollback"), true},
		{"other text", stderrs.New("syntax error"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("%s: IsRetryable = %v, want %v", c.name, got, c.want)
		}
		if got := Retryable(c.err); got != c.want {
			t.Fatalf("%s: Retryable = %v, want %v", c.name, got, c.want)
		}
	}
}
