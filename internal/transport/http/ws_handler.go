package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"trivia-scoring/internal/app"
	"trivia-scoring/internal/domain"
)

type WSHandler struct {
	engine   *app.ScoreEngine
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(engine *app.ScoreEngine, log logrus.FieldLogger) *WSHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WSHandler{
		engine: engine,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Routes registers the handler's endpoints on mux.
func (h *WSHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/score", h.ServeScore)
	mux.HandleFunc("/today", h.ServeToday)
}

// ServeWS upgrades HTTP requests to websockets and feeds answer frames to the engine.
// Only this loop writes to the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	if err := conn.WriteJSON(outboundMessage[domain.ScoreInfo]{Type: "scoreInfo", Payload: h.engine.ScoreInfo(ctx)}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var reply any
		switch inbound.Type {
		case "answer":
			event, err := decodeAnswer(inbound.Payload)
			if err != nil {
				reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				break
			}
			reply = outboundMessage[domain.ScoreResult]{Type: "scoreResult", Payload: h.engine.ProcessAnswer(ctx, event)}
		case "endSession":
			h.engine.EndSession(ctx)
			reply = outboundMessage[domain.ScoreInfo]{Type: "scoreInfo", Payload: h.engine.ScoreInfo(ctx)}
		case "reset":
			h.engine.ResetAllData(ctx)
			reply = outboundMessage[domain.ScoreInfo]{Type: "scoreInfo", Payload: h.engine.ScoreInfo(ctx)}
		case "info":
			reply = outboundMessage[domain.ScoreInfo]{Type: "scoreInfo", Payload: h.engine.ScoreInfo(ctx)}
		case "today":
			reply = outboundMessage[domain.TodayStats]{Type: "todayStats", Payload: h.engine.TodayStats(ctx)}
		default:
			reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: domain.ErrUnknownMessage.Error()}}
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.log.WithError(err).Warn("ws write error")
			return
		}
	}
}

// ServeScore writes the current ScoreInfo as JSON.
func (h *WSHandler) ServeScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.engine.ScoreInfo(r.Context()))
}

// ServeToday writes the current TodayStats as JSON.
func (h *WSHandler) ServeToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.engine.TodayStats(r.Context()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
