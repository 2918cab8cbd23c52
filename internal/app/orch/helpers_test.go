package orch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/CodeRoom/internal/app"
	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
)

var errFull = errors.New("buffer full")

// recorder is a SignalConnection that decodes and keeps every frame.
type recorder struct {
	mu     sync.Mutex
	msgs   []core.Message
	full   bool
	closed bool
}

func (r *recorder) TrySend(f core.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.full {
		return errFull
	}
	var m core.Message
	if err := json.Unmarshal(f, &m); err != nil {
		return err
	}
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *recorder) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Type)
	}
	return out
}

func (r *recorder) count(typ string) int {
	n := 0
	for _, t := range r.types() {
		if t == typ {
			n++
		}
	}
	return n
}

func (r *recorder) last(typ string) (core.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if r.msgs[i].Type == typ {
			return r.msgs[i], true
		}
	}
	return core.Message{}, false
}

// lastMembers returns the member list carried by the most recent
// userJoined or userLeft frame.
func (r *recorder) lastMembers(t *testing.T) []string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.msgs) - 1; i >= 0; i-- {
		m := r.msgs[i]
		if m.Type == core.TypeUserJoined || m.Type == core.TypeUserLeft {
			var names []string
			if err := json.Unmarshal(m.Payload, &names); err != nil {
				t.Fatalf("decode member list: %v", err)
			}
			return names
		}
	}
	return nil
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.msgs = nil
	r.mu.Unlock()
}

func payloadString(t *testing.T, m core.Message) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(m.Payload, &s); err != nil {
		t.Fatalf("decode %s payload %s: %v", m.Type, m.Payload, err)
	}
	return s
}

func payloadResult(t *testing.T, m core.Message) domain.ExecResult {
	t.Helper()
	var res domain.ExecResult
	if err := json.Unmarshal(m.Payload, &res); err != nil {
		t.Fatalf("decode %s payload %s: %v", m.Type, m.Payload, err)
	}
	return res
}

// fakeExecutor blocks until gate is closed (when set) and then answers with
// result/err. It records every request it receives.
type fakeExecutor struct {
	gate   chan struct{}
	result domain.ExecResult
	err    error
	panics bool

	mu   sync.Mutex
	reqs []domain.ExecRequest
}

func (f *fakeExecutor) Execute(ctx context.Context, req domain.ExecRequest) (domain.ExecResult, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.panics {
		panic("executor exploded")
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return domain.ExecResult{}, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeExecutor) calls() []domain.ExecRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ExecRequest(nil), f.reqs...)
}

func newTestOrch(mode domain.PresenceMode, exec core.Executor) *Orchestrator {
	return &Orchestrator{
		Registry:    app.NewRegistry(),
		Rooms:       app.NewRoomManager(mode),
		Policy:      app.SimplePolicy{},
		Executor:    exec,
		ExecTimeout: 2 * time.Second,
	}
}

type client struct {
	sid      core.SessionID
	rec      *recorder
	canceled bool
}

func connect(o *Orchestrator) *client {
	c := &client{sid: core.NewSessionID(), rec: &recorder{}}
	o.Registry.BindSignal(c.sid, core.NewMemberSession(c.sid, c.rec), func() { c.canceled = true })
	return c
}
