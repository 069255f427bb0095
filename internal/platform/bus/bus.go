// Package bus is the NATS client the report publisher and the analyze worker share
package bus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"attractor/internal/platform/config"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
)

// Default subjects
const (
	SubjectReport  = "attractor.analyze.report"
	SubjectRequest = "attractor.analyze.request"
	QueueWorkers   = "attractor-workers"
)

// Config configures the bus connection
type Config struct {
	Enabled        bool
	URL            string
	Token          string
	Subject        string // where report summaries go
	RequestSubject string // where the worker listens
	Queue          string
}

// FromConfig reads NATS_*
func FromConfig(cfg config.Conf) Config {
	n := cfg.Prefix("NATS_")
	return Config{
		Enabled:        n.MayBool("ENABLED", false),
		URL:            n.MayString("URL", nats.DefaultURL),
		Token:          n.MayString("TOKEN", ""),
		Subject:        n.MayString("SUBJECT", SubjectReport),
		RequestSubject: n.MayString("REQUEST_SUBJECT", SubjectRequest),
		Queue:          n.MayString("QUEUE", QueueWorkers),
	}
}

// Handler gets each message; a non-nil reply is sent back when the message carried a reply subject
type Handler func(ctx context.Context, subject string, data []byte) (reply []byte)

// Client wraps a NATS connection and the subscriptions made through it
type Client struct {
	conn *nats.Conn
	subs []*nats.Subscription
	log  *logger.Logger
}

var connect = nats.Connect

// Connect dials the server; reconnects are handled by the client in the background
func Connect(_ context.Context, cfg Config) (*Client, error) {
	log := logger.Named("bus")
	opts := []nats.Option{
		nats.Name("attractor"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := connect(cfg.URL, opts...)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeUnavailable, "nats connect"), "NATS_URL")
	}
	return &Client{conn: nc, log: log}, nil
}

// Publish JSON encodes data and publishes it
func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "bus: marshal payload")
	}
	if err := c.conn.Publish(subject, payload); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "bus: publish %s", subject)
	}
	return nil
}

// Subscribe joins queue on subject and runs h per message with ctx
func (c *Client) Subscribe(ctx context.Context, subject, queue string, h Handler) error {
	sub, err := c.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		reply := h(ctx, msg.Subject, msg.Data)
		if msg.Reply == "" || reply == nil {
			return
		}
		if err := msg.Respond(reply); err != nil {
			c.log.Warn().Err(err).Str("subject", msg.Subject).Msg("reply failed")
		}
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "bus: subscribe %s", subject)
	}
	c.subs = append(c.subs, sub)
	c.log.Info().Str("subject", subject).Str("queue", queue).Msg("subscribed")
	return nil
}

// Ping reports whether the connection is up; used by readiness
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.conn == nil {
		return perr.Unavailablef("bus: not connected")
	}
	if !c.conn.IsConnected() {
		return perr.Unavailablef("bus: %s", c.conn.Status())
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(2 * time.Second)
	}
	if err := c.conn.FlushTimeout(time.Until(deadline)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "bus: flush")
	}
	return nil
}

// Close drops subscriptions and drains the connection
func (c *Client) Close() {
	if c == nil || c.conn == nil {
		return
	}
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
}
