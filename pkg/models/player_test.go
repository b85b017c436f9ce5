package models

import (
	"testing"
	"time"
)

func TestActivation(t *testing.T) {
	tests := []struct {
		activated      int64
		active, banned bool
	}{
		{1700000000, true, false},
		{0, false, false},
		{-1, false, true},
	}
	for _, tt := range tests {
		p := &Player{Activated: tt.activated}
		if p.IsActive() != tt.active || p.IsBanned() != tt.banned {
			t.Errorf("activated=%d: active=%v banned=%v", tt.activated, p.IsActive(), p.IsBanned())
		}
	}
}

func TestAttachDetach(t *testing.T) {
	p := &Player{ID: "1"}
	now := time.Unix(1000, 0)
	p.Attach("s1", now)
	if !p.Connected || p.SessionID != "s1" || !p.ConnectedAt.Equal(now) {
		t.Fatalf("unexpected attached player %+v", p)
	}
	later := now.Add(time.Minute)
	p.Detach(later)
	if p.Connected || p.SessionID != "" || !p.LastSeen.Equal(later) {
		t.Fatalf("unexpected detached player %+v", p)
	}
}
