package signal

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dkeye/CodeRoom/internal/core"
)

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no origin header", allowed: []string{"http://app.test"}, origin: "", want: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "http://evil.test", want: true},
		{name: "unset list", allowed: nil, origin: "http://any.test", want: true},
		{name: "listed", allowed: []string{"http://a.test", "http://app.test"}, origin: "http://app.test", want: true},
		{name: "not listed", allowed: []string{"http://app.test"}, origin: "http://evil.test", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := originChecker(tt.allowed)(r); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrySendBackpressure(t *testing.T) {
	c := &WsSignalConn{send: make(chan core.Frame, 1)}
	if err := c.TrySend(core.Frame("a")); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := c.TrySend(core.Frame("b")); !errors.Is(err, ErrBackpressure) {
		t.Fatalf("second send err = %v, want backpressure", err)
	}
	c.closed = true
	if err := c.TrySend(core.Frame("c")); !errors.Is(err, ErrClosed) {
		t.Fatalf("send on closed err = %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.ReadLimit != 1<<20 || o.PingPeriod <= 0 || o.SendBuffer != 64 {
		t.Fatalf("defaults = %+v", o)
	}
	o = Options{ReadLimit: 10, SendBuffer: 2}.withDefaults()
	if o.ReadLimit != 10 || o.SendBuffer != 2 {
		t.Fatalf("explicit values overwritten: %+v", o)
	}
}

func TestDecodePayload(t *testing.T) {
	var p struct {
		RoomID string `json:"roomId"`
	}
	if decodePayload("sid", core.TypeJoin, nil, &p) {
		t.Fatal("empty payload accepted")
	}
	if decodePayload("sid", core.TypeJoin, []byte(`"not an object"`), &p) {
		t.Fatal("wrong payload shape accepted")
	}
	if !decodePayload("sid", core.TypeJoin, []byte(`{"roomId":"r"}`), &p) || p.RoomID != "r" {
		t.Fatalf("valid payload rejected: %+v", p)
	}
}
