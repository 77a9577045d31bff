package server

import (
	"path/filepath"
	"testing"
	"time"

	"mathlang/internal/object"
	"mathlang/internal/store"
)

func TestSessionsExpireAfterTTL(t *testing.T) {
	m := NewSessionManager(time.Minute, nil)
	info := m.Create()
	info.LastAccessed = time.Now().Add(-2 * time.Minute)

	if got := m.Get(info.ID); got != nil {
		t.Errorf("expected expired session to be gone")
	}
	if len(m.List()) != 0 {
		t.Errorf("expected empty listing after expiry")
	}
}

func TestGetOrCreateMintsWhenUnknown(t *testing.T) {
	m := NewSessionManager(time.Minute, nil)
	info := m.GetOrCreate("no-such-session")
	if info == nil || info.ID == "no-such-session" {
		t.Fatalf("expected a fresh session with a new id")
	}
	if again := m.GetOrCreate(info.ID); again != info {
		t.Errorf("expected the same session back for a known id")
	}
}

func TestSessionRevivesFromStore(t *testing.T) {
	st, err := store.Open("sqlite3", filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	first := NewSessionManager(time.Minute, st)
	info := first.Create()
	info.Session.Set("x", &object.Integer{Value: 42})
	info.Session.Set("pi", &object.Float{Value: 3.14})
	info.Session.Set("f", &object.Lambda{})
	first.Persist(info)

	// a fresh manager simulates a restart
	second := NewSessionManager(time.Minute, st)
	revived := second.Get(info.ID)
	if revived == nil {
		t.Fatalf("expected the session to revive from the store")
	}

	x, ok := revived.Session.Get("x")
	if !ok {
		t.Fatalf("expected x to survive")
	}
	if n, ok := x.(*object.Integer); !ok || n.Value != 42 {
		t.Errorf("expected Integer 42, got %v", x)
	}
	pi, ok := revived.Session.Get("pi")
	if !ok {
		t.Fatalf("expected pi to survive")
	}
	if f, ok := pi.(*object.Float); !ok || f.Value != 3.14 {
		t.Errorf("expected Float 3.14, got %v", pi)
	}
	if _, ok := revived.Session.Get("f"); ok {
		t.Errorf("lambdas should not persist")
	}
}
