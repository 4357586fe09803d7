package modelworker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/modelrpc"
)

// Server exposes a Model over the worker websocket protocol. Every new
// connection receives a READY broadcast before any request is read.
type Server struct {
	model    Model
	upgrader websocket.Upgrader
}

// NewServer creates a worker server for model
func NewServer(model Model) *Server {
	return &Server{
		model: model,
		upgrader: websocket.Upgrader{
			// The worker only listens on loopback for its parent process
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and serves requests until it closes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithNewRequestID(r.Context())
	log := logger.FromContext(ctx)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn(LogMsgUpgradeFailed, "error", err)
		return
	}
	defer conn.Close()
	log.Info(LogMsgConnectionOpened, "remote", r.RemoteAddr)

	var writeMu sync.Mutex
	write := func(msg modelrpc.Message) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	if err := write(modelrpc.Message{Source: modelrpc.Peer, Type: modelrpc.TypeReady, OK: true}); err != nil {
		return
	}

	for {
		var req modelrpc.Message
		if err := conn.ReadJSON(&req); err != nil {
			log.Info(LogMsgConnectionClosed, "reason", err)
			return
		}
		if req.Target != modelrpc.Peer {
			continue
		}
		if err := write(s.handle(ctx, req)); err != nil {
			log.Info(LogMsgConnectionClosed, "reason", err)
			return
		}
	}
}

// handle answers one request
func (s *Server) handle(ctx context.Context, req modelrpc.Message) modelrpc.Message {
	reply := modelrpc.Message{Source: modelrpc.Peer, ID: req.ID, Type: req.Type}

	switch req.Type {
	case modelrpc.TypeWarmup:
		if w, ok := s.model.(Warmer); ok {
			if err := w.Warmup(ctx); err != nil {
				reply.Error = err.Error()
				return reply
			}
		}
		reply.OK = true
		reply.Result, _ = json.Marshal(ResultReady)

	case modelrpc.TypeClassify:
		var payload modelrpc.ClassifyPayload
		if len(req.Payload) > 0 {
			if err := json.Unmarshal(req.Payload, &payload); err != nil {
				reply.Error = err.Error()
				return reply
			}
		}
		pred, err := s.model.Classify(ctx, payload.Text)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgClassifyFailed, "error", err)
			reply.Error = err.Error()
			return reply
		}
		reply.OK = true
		reply.Result, _ = json.Marshal(pred)

	default:
		reply.Error = ErrMsgUnknownCall
	}
	return reply
}
