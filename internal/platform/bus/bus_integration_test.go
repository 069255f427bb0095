//go:build integration

package bus

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
)

func natsURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_RequestReply(t *testing.T) {
	ctx := context.Background()
	c, err := Connect(ctx, Config{URL: natsURL(t)})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()

	err = c.Subscribe(ctx, "attractor.test.echo", "q", func(_ context.Context, _ string, data []byte) []byte {
		return append([]byte("echo:"), data...)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	nc, err := nats.Connect(natsURL(t))
	if err != nil {
		t.Fatalf("second conn: %v", err)
	}
	defer nc.Close()

	msg, err := nc.Request("attractor.test.echo", []byte("hi"), 5*time.Second)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if string(msg.Data) != "echo:hi" {
		t.Fatalf("reply = %q", msg.Data)
	}

	got := make(chan map[string]string, 1)
	sub, err := nc.Subscribe("attractor.test.pub", func(m *nats.Msg) {
		var v map[string]string
		_ = json.Unmarshal(m.Data, &v)
		got <- v
	})
	if err != nil {
		t.Fatalf("subscribe raw: %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()
	_ = nc.Flush()

	if err := c.Publish("attractor.test.pub", map[string]string{"run_id": "r1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	select {
	case v := <-got:
		if v["run_id"] != "r1" {
			t.Fatalf("payload = %v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for publish")
	}
}
