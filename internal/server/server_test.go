// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package server

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"nickandperla.net/clips/internal/store"
	"nickandperla.net/clips/pkg/clips"
)

func newTestServer(t *testing.T, st store.Store, mode clips.PersistMode) *httptest.Server {
	t.Helper()
	srv := New(func(name string) *clips.Session {
		return clips.New(
			clips.WithStore(st),
			clips.WithSessionName(name),
			clips.WithPersistMode(mode),
		)
	}, log.New(io.Discard, "", 0))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func roundTrip(t *testing.T, c *websocket.Conn, req Request) Response {
	t.Helper()
	if err := c.WriteJSON(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp Response
	if err := c.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, store.NewMemory(), clips.PersistNever)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{"<h2>Arithmetic Operations</h2>", "<code>(+ 3 3)</code>", "new WebSocket"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("index missing %q", want)
		}
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status for /nope = %d, want 404", resp.StatusCode)
	}
}

func TestSessionCommands(t *testing.T) {
	ts := newTestServer(t, store.NewMemory(), clips.PersistNever)
	c := dial(t, ts, "")

	var hello Response
	if err := c.ReadJSON(&hello); err != nil {
		t.Fatalf("read greeting: %v", err)
	}
	if hello.Session == "" || len(hello.Lines) != 0 || len(hello.Facts) != 0 {
		t.Fatalf("greeting = %+v", hello)
	}

	resp := roundTrip(t, c, Request{Command: `(assert (person (name "John")))`})
	if len(resp.Lines) != 1 || resp.Lines[0] != "f-1" {
		t.Errorf("assert lines = %v", resp.Lines)
	}
	if len(resp.Facts) != 1 || resp.Facts[0] != `f-1: (person (name "John"))` {
		t.Errorf("facts = %v", resp.Facts)
	}

	resp = roundTrip(t, c, Request{Command: "(bind ?x 10)"})
	if len(resp.Variables) != 1 || resp.Variables[0] != "?x: 10" {
		t.Errorf("variables = %v", resp.Variables)
	}

	resp = roundTrip(t, c, Request{Command: "(/ 1 0)"})
	if len(resp.Lines) != 1 || resp.Lines[0] != "Error: Division by zero" {
		t.Errorf("error lines = %v", resp.Lines)
	}

	resp = roundTrip(t, c, Request{Reset: true})
	if len(resp.Facts) != 0 || len(resp.Variables) != 0 {
		t.Errorf("after reset = %+v", resp)
	}
}

func TestConnectionsAreIsolated(t *testing.T) {
	ts := newTestServer(t, store.NewMemory(), clips.PersistNever)
	a := dial(t, ts, "")
	b := dial(t, ts, "")
	var ha, hb Response
	a.ReadJSON(&ha)
	b.ReadJSON(&hb)
	if ha.Session == hb.Session {
		t.Fatalf("both connections got session %s", ha.Session)
	}

	roundTrip(t, a, Request{Command: "(assert (only a))"})
	resp := roundTrip(t, b, Request{Command: "(facts)"})
	if len(resp.Lines) != 1 || resp.Lines[0] != "No facts in the system" {
		t.Errorf("second connection sees %v", resp.Lines)
	}
}

func TestNamedSessionPersists(t *testing.T) {
	st := store.NewMemory()
	ts := newTestServer(t, st, clips.PersistAlways)

	c := dial(t, ts, "?session=shared")
	var hello Response
	c.ReadJSON(&hello)
	if hello.Session != "shared" {
		t.Fatalf("session = %q, want shared", hello.Session)
	}
	roundTrip(t, c, Request{Command: "(assert (kept))"})
	c.Close()

	c = dial(t, ts, "?session=shared")
	if err := c.ReadJSON(&hello); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(hello.Facts) != 1 || hello.Facts[0] != "f-1: (kept)" {
		t.Errorf("reconnected facts = %v", hello.Facts)
	}
}

func TestBadRequest(t *testing.T) {
	ts := newTestServer(t, store.NewMemory(), clips.PersistNever)
	c := dial(t, ts, "")
	var hello Response
	c.ReadJSON(&hello)

	if err := c.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, msg, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(msg), "can't parse:") {
		t.Errorf("reply = %q", msg)
	}

	resp := roundTrip(t, c, Request{Command: "(+ 1 2)"})
	if len(resp.Lines) != 1 || resp.Lines[0] != "3" {
		t.Errorf("lines after bad request = %v", resp.Lines)
	}
}
