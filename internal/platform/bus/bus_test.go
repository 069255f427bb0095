package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"

	"attractor/internal/platform/config"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/testkit"
)

func TestFromConfig(t *testing.T) {
	c := FromConfig(config.New())
	if c.Enabled || c.URL != nats.DefaultURL || c.Subject != SubjectReport || c.RequestSubject != SubjectRequest {
		t.Fatalf("defaults = %+v", c)
	}

	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NATS_URL", "nats://bus:4222")
	t.Setenv("NATS_TOKEN", "s3cret")
	t.Setenv("NATS_SUBJECT", "lab.reports")
	c = FromConfig(config.New())
	if !c.Enabled || c.URL != "nats://bus:4222" || c.Token != "s3cret" || c.Subject != "lab.reports" {
		t.Fatalf("env = %+v", c)
	}
	if c.Queue != QueueWorkers {
		t.Fatalf("queue = %q", c.Queue)
	}
}

func TestConnect_Failure(t *testing.T) {
	var gotURL string
	var nopts int
	testkit.Swap(t, &connect, func(url string, opts ...nats.Option) (*nats.Conn, error) {
		gotURL, nopts = url, len(opts)
		return nil, errors.New("no servers available")
	})

	_, err := Connect(context.Background(), Config{URL: "nats://x:4222", Token: "t"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	if w := perr.WireFrom(err); w.Field != "NATS_URL" {
		t.Fatalf("field = %q", w.Field)
	}
	if gotURL != "nats://x:4222" {
		t.Fatalf("url = %q", gotURL)
	}
	// token adds one option on top of the defaults
	if nopts != 7 {
		t.Fatalf("options = %d", nopts)
	}
}

func TestNilClient(t *testing.T) {
	var c *Client
	if err := c.Ping(context.Background()); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("ping nil: %v", err)
	}
	testkit.MustNotPanic(t, func() { c.Close() })
}
