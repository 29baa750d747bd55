package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"toolstation/catalog"
	"toolstation/codec"
	"toolstation/convert"
	"toolstation/format"
	"toolstation/jstext"
	"toolstation/ledger"
	"toolstation/textmetric"
	"toolstation/toolerr"
)

// Recorder receives usage for successful transforms. *ledger.Ledger
// satisfies it.
type Recorder interface {
	RecordUsage(ctx context.Context, client string, deltaChars, deltaStorage int64) (ledger.Usage, error)
}

// Action kinds.
const (
	ActionConvert = "convert" // text-converter: Case names the convert.Kind
	ActionFormat  = "format"  // json-formatter (Indent) and sql-formatter
	ActionSwap    = "swap"    // base64-tool
	ActionMode    = "mode"    // base64-tool: Mode is "encode" or "decode"
	ActionCopy    = "copy"    // any tool: counts the buffer as processed
	ActionClear   = "clear"   // any tool
)

// Action is a transform requested on a session's buffer.
type Action struct {
	Kind   string `json:"kind"`
	Case   string `json:"case,omitempty"`
	Indent int    `json:"indent,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// View is what a client renders after every operation.
type View struct {
	Tool    string             `json:"tool"`
	Text    string             `json:"text"`
	Output  string             `json:"output,omitempty"`
	Mode    string             `json:"mode,omitempty"`
	Metrics textmetric.Metrics `json:"metrics"`
	Error   string             `json:"error,omitempty"`
}

// Info is the listing form of a session.
type Info struct {
	ID         string    `json:"id"`
	Tool       string    `json:"tool"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	Connected  bool      `json:"connected"`
}

// Session is one open tool view. It owns the text buffer, plus the
// two-pane codec state for the Base64 tool.
type Session struct {
	ID        string
	Tool      string
	Client    string
	CreatedAt time.Time

	recorder Recorder
	now      func() time.Time

	mu         sync.Mutex
	text       string
	codec      *codec.Buffer
	lastActive time.Time

	outChan   chan View
	kickChan  chan struct{}
	connected bool
	outMu     sync.Mutex

	done     chan struct{}
	doneOnce sync.Once
}

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrUnsupportedTool = errors.New("tool has no text session")
)

// textTools are the catalog entries a session can host.
var textTools = map[string]bool{
	catalog.WordCounter:   true,
	catalog.TextConverter: true,
	catalog.JSONFormatter: true,
	catalog.SQLFormatter:  true,
	catalog.Base64Tool:    true,
}

func newSession(id, tool, client string, rec Recorder, now func() time.Time) *Session {
	t := now()
	s := &Session{
		ID:         id,
		Tool:       tool,
		Client:     client,
		CreatedAt:  t,
		recorder:   rec,
		now:        now,
		lastActive: t,
		done:       make(chan struct{}),
	}
	if tool == catalog.Base64Tool {
		s.codec = &codec.Buffer{}
		s.codec.Set("")
	}
	return s
}

// Info returns a consistent snapshot for listing.
func (s *Session) Info() Info {
	s.mu.Lock()
	last := s.lastActive
	s.mu.Unlock()
	s.outMu.Lock()
	connected := s.connected
	s.outMu.Unlock()
	return Info{ID: s.ID, Tool: s.Tool, CreatedAt: s.CreatedAt, LastActive: last, Connected: connected}
}

// View returns the current state without changing it.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(nil)
}

// SetText replaces the buffer wholesale. For the Base64 tool the output pane
// is recomputed from it.
func (s *Session) SetText(text string) View {
	s.mu.Lock()
	s.text = text
	s.lastActive = s.now()
	if s.codec != nil {
		s.codec.Set(text)
	}
	v := s.viewLocked(nil)
	s.mu.Unlock()

	s.publish(v)
	return v
}

// Apply runs a on the buffer. A failed transform leaves the buffer as it was
// and reports the failure in View.Error; usage is recorded only on success.
func (s *Session) Apply(ctx context.Context, a Action) View {
	s.mu.Lock()
	s.lastActive = s.now()
	charged := int64(jstext.Len(s.text))
	if a.Kind == ActionCopy && s.codec != nil {
		// The Base64 tool copies its output pane.
		charged = int64(jstext.Len(s.codec.Output))
	}
	err := s.applyLocked(a)
	v := s.viewLocked(err)
	s.mu.Unlock()

	if err == nil && a.Kind != ActionClear && s.recorder != nil {
		if _, rerr := s.recorder.RecordUsage(ctx, s.Client, charged, 0); rerr != nil {
			v.Error = fmt.Sprintf("record usage: %v", rerr)
		}
	}
	s.publish(v)
	return v
}

func (s *Session) applyLocked(a Action) error {
	switch a.Kind {
	case ActionClear:
		s.text = ""
		if s.codec != nil {
			s.codec.Set("")
		}
		return nil
	case ActionCopy:
		// Copies the buffer as is, blank or not.
		return nil
	case ActionConvert:
		if s.Tool != catalog.TextConverter {
			break
		}
		k, err := convert.ParseKind(a.Case)
		if err != nil {
			return err
		}
		out, err := convert.Convert(s.text, k)
		if err != nil {
			return err
		}
		s.text = out
		return nil
	case ActionFormat:
		var out string
		var err error
		switch s.Tool {
		case catalog.JSONFormatter:
			indent := a.Indent
			if indent == 0 {
				indent = format.Indent2
			}
			out, err = format.JSON(s.text, indent)
		case catalog.SQLFormatter:
			out, err = format.SQL(s.text)
		default:
			return fmt.Errorf("%w: %s cannot %s", toolerr.ErrInvalidOption, s.Tool, a.Kind)
		}
		if err != nil {
			return err
		}
		s.text = out
		return nil
	case ActionSwap:
		if s.codec == nil {
			break
		}
		s.codec.Swap()
		s.text = s.codec.Input
		return nil
	case ActionMode:
		if s.codec == nil {
			break
		}
		m, err := codec.ParseMode(a.Mode)
		if err != nil {
			return err
		}
		s.codec.Mode = m
		s.codec.Set(s.text)
		return nil
	}
	return fmt.Errorf("%w: %s cannot %s", toolerr.ErrInvalidOption, s.Tool, a.Kind)
}

// viewLocked builds the current view. A codec failure is reported unless err
// is set. Caller must hold s.mu.
func (s *Session) viewLocked(err error) View {
	if err == nil && s.codec != nil {
		err = s.codec.Err
	}
	v := View{
		Tool:    s.Tool,
		Text:    s.text,
		Metrics: textmetric.Compute(s.text),
	}
	if s.codec != nil {
		v.Output = s.codec.Output
		v.Mode = s.codec.Mode.String()
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}

// publish hands v to the connected client without blocking. A slow client
// misses intermediate views, never the session.
func (s *Session) publish(v View) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.outChan == nil {
		return
	}
	select {
	case s.outChan <- v:
	default:
	}
}

// SetClient registers a channel to receive views. If a previous client is
// connected it is kicked: its kick channel is closed so the WebSocket handler
// can detect the displacement and close that connection. Returns a kick
// channel that will be closed if this client is itself later displaced.
func (s *Session) SetClient(ch chan View) <-chan struct{} {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.kickChan != nil {
		close(s.kickChan)
	}
	kick := make(chan struct{})
	s.kickChan = kick
	s.outChan = ch
	s.connected = true
	return kick
}

// ClearClient is called when a connection ends. It only updates session state
// if ch is still the current owner, so a displaced connection cannot clear a
// newer one. It always closes ch so the pump goroutine exits.
func (s *Session) ClearClient(ch chan View) {
	s.outMu.Lock()
	if s.outChan == ch {
		s.outChan = nil
		s.connected = false
		s.kickChan = nil
	}
	s.outMu.Unlock()
	close(ch)
}

// Connected reports whether a client currently owns the session.
func (s *Session) Connected() bool {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.connected
}

// Done returns a channel that is closed when the session is killed or reaped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) close() {
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
