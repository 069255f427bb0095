package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"attractor/internal/adapters/ingest"
	perr "attractor/internal/platform/errors"
	"attractor/internal/platform/logger"
	pnet "attractor/internal/platform/net"
	"attractor/internal/services/analyze/domain"
	"attractor/internal/services/analyze/service"
)

const writeWait = 10 * time.Second

// stream scores each inbound text frame and answers with one JSON frame.
// A frame is either raw text or a JSON record object
type stream struct {
	svc      *service.Service
	upgrader websocket.Upgrader
	limit    int64
	idle     time.Duration
}

func newStream(svc *service.Service, o Options) *stream {
	return &stream{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(o.StreamOrigins),
		},
		limit: o.StreamReadLimit,
		idle:  o.StreamIdle,
	}
}

func (s *stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.C(r.Context()).With().Str("component", "analyze.stream").Logger()
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		log.Debug().Err(err).Msg("upgrade refused")
		return
	}
	defer func() { _ = conn.Close() }()

	if s.limit > 0 {
		conn.SetReadLimit(s.limit)
	}
	reqID := pnet.RequestID(r.Context())
	var seq int64
	for {
		if s.idle > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.idle))
		}
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Int64("frames", seq).Msg("stream closed")
			}
			return
		}
		seq++

		var frame pnet.Frame
		if kind != websocket.TextMessage {
			frame = pnet.NewFrame(seq, nil, perr.InvalidArgf("text frames only"), reqID)
		} else {
			sc, err := s.score(r, msg)
			frame = pnet.NewFrame(seq, sc, err, reqID)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			log.Warn().Err(err).Int64("seq", seq).Msg("stream write failed")
			return
		}
	}
}

func (s *stream) score(r *http.Request, msg []byte) (domain.RecordScore, error) {
	in := domain.RecordIn{Text: string(msg)}
	if trimmed := bytes.TrimSpace(msg); len(trimmed) > 0 && trimmed[0] == '{' {
		in = domain.RecordIn{}
		if err := json.Unmarshal(trimmed, &in); err != nil {
			return domain.RecordScore{}, perr.Wrap(err, perr.ErrorCodeJSON, "invalid record frame")
		}
	}
	rec, err := ingest.Convert(in)
	if err != nil {
		return domain.RecordScore{}, err
	}
	return s.svc.Score(r.Context(), rec)
}

// originChecker allows any origin when the list is empty or holds "*";
// requests without an Origin header (non-browser clients) always pass
func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
