// internal/httpserver/ws.go
//
// Websocket play: GET /game/{id}/ws?token=...
//
// Protocol (JSON text frames):
//   client → {"action":"reveal"|"flag"|"restart"|"state", "row":r, "col":c}
//   server → {"type":"board", "outcome"?, "changed"?, "state", "board"}
//            {"type":"error", "error":"<code>"}
//
// reveal and flag need both row and col; a frame missing either is answered
// with bad_json, the same as the HTTP routes.
//
// The server sends the current board right after the upgrade. Each message
// is answered in order from the single read loop, so there is one writer of
// data frames; pings go through WriteControl, which may run concurrently.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/view"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

type wsIn struct {
	Action string `json:"action"`
	Row    *int   `json:"row"`
	Col    *int   `json:"col"`
}

type wsOut struct {
	Type    string        `json:"type"`
	Outcome *game.Outcome `json:"outcome,omitempty"`
	Changed *bool         `json:"changed,omitempty"`
	State   game.State    `json:"state,omitempty"`
	Board   *view.Board   `json:"board,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == s.opts.ClientOrigin || origin == "http://"+r.Host || origin == "https://"+r.Host
		},
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	log.Debug().Str("gameId", sess.ID).Msg("websocket connected")
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go pingLoop(conn, done)

	if err := send(conn, boardMsg(sess)); err != nil {
		return
	}
	for {
		var in wsIn
		if err := conn.ReadJSON(&in); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				// The rest of the bad frame is discarded by the next read.
				if send(conn, wsOut{Type: "error", Error: "bad_json"}) != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("gameId", sess.ID).Msg("websocket read")
			}
			return
		}
		if err := send(conn, s.applyWS(sess, in)); err != nil {
			return
		}
	}
}

// applyWS runs one client message against the session.
func (s *Server) applyWS(sess *game.Session, in wsIn) wsOut {
	switch in.Action {
	case "reveal", "flag":
		if in.Row == nil || in.Col == nil {
			return wsOut{Type: "error", Error: "bad_json"}
		}
	}
	switch in.Action {
	case "reveal":
		res, err := s.reveal(sess, *in.Row, *in.Col)
		if err != nil {
			return errMsg(err)
		}
		return wsOut{Type: "board", Outcome: &res.Outcome, State: res.State, Board: &res.Board}
	case "flag":
		res, err := s.flag(sess, *in.Row, *in.Col)
		if err != nil {
			return errMsg(err)
		}
		return wsOut{Type: "board", Changed: &res.Changed, State: res.State, Board: &res.Board}
	case "restart":
		if err := sess.Restart(); err != nil {
			return errMsg(err)
		}
		s.metrics.restarts.Inc()
		return boardMsg(sess)
	case "state":
		return boardMsg(sess)
	}
	return wsOut{Type: "error", Error: "unknown_action"}
}

func boardMsg(sess *game.Session) wsOut {
	b := view.FromSnapshot(sess.Snapshot())
	return wsOut{Type: "board", State: b.State, Board: &b}
}

func errMsg(err error) wsOut {
	_, code := errorCode(err)
	return wsOut{Type: "error", Error: code}
}

func send(conn *websocket.Conn, msg wsOut) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
