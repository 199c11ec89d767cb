// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package server exposes clips sessions over HTTP and WebSocket.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/russross/blackfriday/v2"

	"nickandperla.net/clips/internal/examples"
	"nickandperla.net/clips/pkg/clips"
)

// SessionFactory creates the session for one connection.
type SessionFactory func(name string) *clips.Session

// Request is a client message. An empty Command with Reset set clears
// the session; otherwise Command is executed.
type Request struct {
	Command string `json:"command"`
	Reset   bool   `json:"reset,omitempty"`
}

// Response is sent after every request, and once on connect with no
// lines, so the client can refresh its facts and rules panels.
type Response struct {
	Session   string   `json:"session"`
	Command   string   `json:"command,omitempty"`
	Lines     []string `json:"lines"`
	Facts     []string `json:"facts"`
	Rules     []string `json:"rules"`
	Variables []string `json:"variables"`
}

// Server serves the example index and the /ws command endpoint.
type Server struct {
	newSession SessionFactory
	logger     *log.Logger
	upgrader   websocket.Upgrader
}

// New creates a server. Each WebSocket connection gets its own session.
func New(newSession SessionFactory, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		newSession: newSession,
		logger:     logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexHead)
	w.Write(blackfriday.Run([]byte(examples.Markdown)))
	io.WriteString(w, indexTail)
}

// serveWS runs one session per connection. Messages are handled one at
// a time on this goroutine, which serializes access to the session.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Println("upgrade error", err)
		return
	}
	defer c.Close()

	name := r.URL.Query().Get("session")
	if name == "" {
		name = uuid.New().String()
	}
	sess := s.newSession(name)
	defer sess.Close()

	s.logger.Printf("session %s connected from %s", name, r.RemoteAddr)
	defer s.logger.Printf("session %s disconnected", name)

	if err := c.WriteJSON(snapshot(sess, "", nil)); err != nil {
		s.logger.Println("write error", err)
		return
	}

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Println("read error", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(message, &req); err != nil {
			msg := fmt.Sprintf("can't parse: %v", err)
			if err := c.WriteMessage(mt, []byte(msg)); err != nil {
				s.logger.Println("write (err)", err)
				return
			}
			continue
		}

		var lines []string
		if req.Reset {
			sess.Clear()
		} else {
			lines = sess.Execute(req.Command)
		}
		if err := c.WriteJSON(snapshot(sess, req.Command, lines)); err != nil {
			s.logger.Println("write error", err)
			return
		}
	}
}

func snapshot(sess *clips.Session, command string, lines []string) Response {
	return Response{
		Session:   sess.Name(),
		Command:   command,
		Lines:     nonNil(lines),
		Facts:     nonNil(sess.Facts()),
		Rules:     nonNil(sess.Rules()),
		Variables: nonNil(sess.Variables()),
	}
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

const indexHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>clips</title>
<style>
body { font-family: monospace; background: #0f172a; color: #e2e8f0; margin: 2em; }
#out { white-space: pre-wrap; min-height: 10em; border: 1px solid #334155; padding: 1em; }
.cmd { color: #86efac; }
code { color: #60a5fa; cursor: pointer; }
#panels { display: flex; gap: 2em; }
</style>
</head>
<body>
<div id="out"></div>
<form id="f"><input id="in" size="80" autofocus> <button>Run</button></form>
<div id="panels"><div><h3>Facts</h3><pre id="facts"></pre></div><div><h3>Rules</h3><pre id="rules"></pre></div></div>
<div id="examples">
`

const indexTail = `</div>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
const out = document.getElementById("out");
const input = document.getElementById("in");
ws.onmessage = (ev) => {
  const r = JSON.parse(ev.data);
  if (r.command) {
    const d = document.createElement("div");
    d.className = "cmd";
    d.textContent = "> " + r.command;
    out.appendChild(d);
  }
  for (const line of r.lines) {
    const d = document.createElement("div");
    d.textContent = line;
    out.appendChild(d);
  }
  document.getElementById("facts").textContent = r.facts.join("\n");
  document.getElementById("rules").textContent = r.rules.join("\n");
};
document.getElementById("f").onsubmit = (ev) => {
  ev.preventDefault();
  if (input.value.trim() === "") return;
  ws.send(JSON.stringify({command: input.value}));
  input.value = "";
};
for (const c of document.querySelectorAll("#examples code")) {
  c.onclick = () => { input.value = c.textContent; input.focus(); };
}
</script>
</body>
</html>
`
