package server

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
)

// NewMux builds the HTTP surface: join, the gameplay socket, diagnostics,
// and the static client bundle.
func NewMux(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string               `json:"status"`
			ServerTime int64                `json:"serverTime"`
			Sessions   []diagnosticsSession `json:"sessions"`
			TickRate   int                  `json:"tickRate"`
			Heartbeat  int64                `json:"heartbeatMillis"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Sessions:   hub.DiagnosticsSnapshot(),
			TickRate:   hub.tickRate,
			Heartbeat:  heartbeatInterval.Milliseconds(),
		}
		writeJSON(w, payload)
	})

	mux.HandleFunc("/join", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, hub.Join())
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("id")
		if sessionID == "" {
			http.Error(w, "missing id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed for %s: %v", sessionID, err)
			return
		}

		sub, ok := hub.Subscribe(sessionID, conn)
		if !ok {
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown session")
			conn.WriteMessage(websocket.CloseMessage, message)
			conn.Close()
			return
		}

		readCommands(hub, sub, sessionID, conn)
	})

	if clientDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(filepath.Clean(clientDir))))
	}

	return mux
}

// readCommands is the per-connection read loop. A read error tears the
// session down; snapshots flow out on the simulation tick, not from here.
func readCommands(hub *Hub, sub *subscriber, sessionID string, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			hub.Disconnect(sessionID)
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			log.Printf("discarding malformed message from %s: %v", sessionID, err)
			continue
		}

		if cmd.Type == "heartbeat" {
			now := time.Now()
			rtt, ok := hub.UpdateHeartbeat(sessionID, now, cmd.SentAt)
			if !ok {
				continue
			}
			ack := heartbeatMessage{
				Ver:        ProtocolVersion,
				Type:       "heartbeat",
				ServerTime: now.UnixMilli(),
				ClientTime: cmd.SentAt,
				RTTMillis:  rtt.Milliseconds(),
			}
			data, err := json.Marshal(ack)
			if err != nil {
				continue
			}
			sub.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = conn.WriteMessage(websocket.TextMessage, data)
			sub.mu.Unlock()
			if err != nil {
				hub.Disconnect(sessionID)
				return
			}
			continue
		}

		if !hub.Apply(sessionID, cmd) {
			log.Printf("ignored %q command from %s", cmd.Type, sessionID)
		}
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
