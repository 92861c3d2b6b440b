package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const handshakeTimeout = 10 * time.Second

// FailureKind classifies why a session ended without a report.
type FailureKind int

const (
	// FailureTransport covers dial errors, dropped connections, and a remote
	// close arriving before any terminal message.
	FailureTransport FailureKind = iota
	// FailureProtocol covers payloads matching none of the known shapes.
	FailureProtocol
	// FailureRemote is a well-formed error terminal sent by the backend.
	FailureRemote
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureProtocol:
		return "protocol"
	case FailureRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// SessionEvent is one of ProgressEvent, ReportEvent, or FailureEvent.
type SessionEvent interface{ sessionEvent() }

// ProgressEvent is a non-terminal log line from the running analysis.
type ProgressEvent struct{ Log string }

// ReportEvent is the terminal success outcome.
type ReportEvent struct{ Report Report }

// FailureEvent is the terminal failure outcome.
type FailureEvent struct {
	Kind    FailureKind
	Message string
}

func (ProgressEvent) sessionEvent() {}
func (ReportEvent) sessionEvent()   {}
func (FailureEvent) sessionEvent()  {}

// AnalysisSession drives one SEO analysis job over a persistent socket. It is
// single-use: after the event channel closes a new analysis needs a new
// session. The session owns its connection and releases it exactly once on
// every exit path.
type AnalysisSession struct {
	conn   *websocket.Conn
	events chan SessionEvent
	done   chan struct{}

	once sync.Once

	mu        sync.Mutex
	cancelled bool
}

// OpenAnalysisSession dials wsURL, sends the initiation message, and starts
// the reader. The returned session delivers ordered progress events followed
// by exactly one terminal event on Events; the channel closes after the
// terminal event or after Cancel. Cancelling ctx abandons the session the
// same way Cancel does.
func OpenAnalysisSession(ctx context.Context, wsURL string, req AnalysisRequest) (*AnalysisSession, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}
	if err := conn.WriteJSON(req); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send initiation: %w", err)
	}

	s := &AnalysisSession{
		conn:   conn,
		events: make(chan SessionEvent, 16),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	go func() {
		select {
		case <-ctx.Done():
			s.Cancel()
		case <-s.done:
		}
	}()
	return s, nil
}

// Events returns the ordered event stream. It closes once the session reaches
// a terminal state.
func (s *AnalysisSession) Events() <-chan SessionEvent { return s.events }

// Cancel abandons the session. It is safe to call in any state and more than
// once. A cancelled session emits no failure event: abandoning a run is not
// an error.
func (s *AnalysisSession) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
	s.release()
}

func (s *AnalysisSession) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// release tears down the connection. Guarded so every exit path (terminal
// message, transport error, cancel) closes the socket exactly once.
func (s *AnalysisSession) release() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

func (s *AnalysisSession) readLoop() {
	defer close(s.events)
	defer s.release()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.isCancelled() {
				return
			}
			// A clean remote close with no terminal message is still a
			// failure: callers must never hang waiting for a result.
			msg := err.Error()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				msg = "connection closed before completion"
			}
			s.emit(FailureEvent{Kind: FailureTransport, Message: msg})
			return
		}

		ev, terminal := decodeServerMessage(data)
		if !s.emit(ev) {
			return
		}
		if terminal {
			return
		}
	}
}

// emit delivers an event unless the session was abandoned. Returns false when
// delivery was aborted by Cancel.
func (s *AnalysisSession) emit(ev SessionEvent) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

// decodeServerMessage maps a raw payload onto the three-shape union. The
// second return reports whether the event is terminal.
func decodeServerMessage(data []byte) (SessionEvent, bool) {
	var m serverMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return FailureEvent{Kind: FailureProtocol, Message: fmt.Sprintf("malformed message: %v", err)}, true
	}

	switch {
	case m.Log != nil:
		return ProgressEvent{Log: *m.Log}, false

	case len(m.Report) > 0 && !bytes.Equal(m.Report, []byte("null")):
		var r Report
		if err := json.Unmarshal(m.Report, &r); err != nil {
			return FailureEvent{Kind: FailureProtocol, Message: fmt.Sprintf("malformed report: %v", err)}, true
		}
		return ReportEvent{Report: r}, true

	case m.Status == "error":
		return FailureEvent{Kind: FailureRemote, Message: m.Message}, true

	default:
		return FailureEvent{Kind: FailureProtocol, Message: "message matches no known shape"}, true
	}
}
