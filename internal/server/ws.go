package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/linkgraph/pkg/docgraph"
	"github.com/matzehuels/linkgraph/pkg/errors"
)

const wsWriteWait = 10 * time.Second

// The server pings while a build runs; a client that stops answering for
// wsPongWait is treated as gone.
var (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// Message types sent on /api/graph/ws.
const (
	MessageProgress = "progress"
	MessageResult   = "result"
	MessageError    = "error"
)

// StreamMessage is one frame on the graph websocket. Exactly one of the
// payload fields is set, matching Type.
type StreamMessage struct {
	Type     string             `json:"type"`
	Progress *docgraph.Progress `json:"progress,omitempty"`
	Result   *GraphResponse     `json:"result,omitempty"`
	Error    *ErrorDetail       `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// handleGraphWS builds a graph like handleGraph but streams progress
// messages before the final result. The request is taken from the query
// string and validated before upgrading, so bad requests get a plain 400.
func (s *Server) handleGraphWS(w http.ResponseWriter, r *http.Request) {
	req, err := graphRequestFromQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client sends nothing; reading only detects a close.
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var mu sync.Mutex
	send := func(msg StreamMessage) error {
		mu.Lock()
		defer mu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(msg)
	}

	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				mu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
				mu.Unlock()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	onProgress := func(p docgraph.Progress) {
		if ctx.Err() != nil {
			return
		}
		if err := send(StreamMessage{Type: MessageProgress, Progress: &p}); err != nil {
			cancel()
		}
	}

	resp, err := s.buildGraph(ctx, req, onProgress)
	if err != nil {
		if ctx.Err() != nil && r.Context().Err() == nil {
			s.logger.Debug("websocket client went away", "focus", req.Focus)
			return
		}
		body := errorBody(err)
		_ = send(StreamMessage{Type: MessageError, Error: &body.Error})
	} else if err := send(StreamMessage{Type: MessageResult, Result: resp}); err != nil {
		s.logger.Debug("websocket write failed", "error", err)
		return
	}

	mu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWait))
	mu.Unlock()
}

func graphRequestFromQuery(q url.Values) (GraphRequest, error) {
	req := GraphRequest{
		Focus:   q.Get("focus"),
		Layout:  q.Get("layout"),
		GraphID: q.Get("graph_id"),
	}
	var err error
	if req.MaxDepth, err = queryInt(q, "max_depth"); err != nil {
		return req, err
	}
	if req.MaxNodes, err = queryInt(q, "max_nodes"); err != nil {
		return req, err
	}
	if req.Incremental, err = queryBool(q, "incremental"); err != nil {
		return req, err
	}
	if req.NoExternal, err = queryBool(q, "no_external"); err != nil {
		return req, err
	}
	return req, nil
}

func queryInt(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func queryBool(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
