package server

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"mathlang/internal/object"
	"mathlang/internal/store"
)

// SessionInfo is one live session plus its bookkeeping. Eval serializes
// evaluations against the same session; the engine is not reentrant per
// session.
type SessionInfo struct {
	ID           string
	Session      *object.Session
	CreatedAt    time.Time
	LastAccessed time.Time

	Eval sync.Mutex
}

func (si *SessionInfo) touch() {
	si.LastAccessed = time.Now()
}

// VariableBinding is the wire form of one session variable.
type VariableBinding struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

func (si *SessionInfo) variables() map[string]VariableBinding {
	result := make(map[string]VariableBinding)
	for name, value := range si.Session.Variables() {
		result[name] = VariableBinding{Value: value.Inspect(), Type: value.TypeName()}
	}
	return result
}

// SessionManager tracks sessions by uuid and expires the idle ones. With a
// store attached, scalar bindings survive a restart: they are reloaded on
// the first access of an unknown session id.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*SessionInfo
	ttl      time.Duration
	store    *store.Store
}

func NewSessionManager(ttl time.Duration, st *store.Store) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*SessionInfo),
		ttl:      ttl,
		store:    st,
	}
}

func (m *SessionManager) Create() *SessionInfo {
	now := time.Now()
	info := &SessionInfo{
		ID:           uuid.NewString(),
		Session:      object.NewSession(),
		CreatedAt:    now,
		LastAccessed: now,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupExpired()
	m.sessions[info.ID] = info
	return info
}

// Get returns the session, reviving it from the store when unknown in
// memory. A nil return means the id matches nothing anywhere.
func (m *SessionManager) Get(sessionID string) *SessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupExpired()
	info, ok := m.sessions[sessionID]
	if ok {
		info.touch()
		return info
	}
	return m.reviveLocked(sessionID)
}

func (m *SessionManager) GetOrCreate(sessionID string) *SessionInfo {
	if sessionID != "" {
		if info := m.Get(sessionID); info != nil {
			return info
		}
	}
	return m.Create()
}

func (m *SessionManager) Delete(sessionID string) bool {
	m.mu.Lock()
	_, ok := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.DeleteSession(sessionID); err != nil {
			slog.Warn("store delete failed", slog.String("session", sessionID), slog.Any("error", err))
		}
	}
	return ok
}

func (m *SessionManager) Clear(sessionID string) *SessionInfo {
	info := m.Get(sessionID)
	if info == nil {
		return nil
	}
	info.Session.Clear()
	m.Persist(info)
	return info
}

// SessionSummary is the wire form of one entry in the session listing.
type SessionSummary struct {
	ID            string  `json:"id"`
	CreatedAt     float64 `json:"created_at"`
	LastAccessed  float64 `json:"last_accessed"`
	VariableCount int     `json:"variable_count"`
}

func (m *SessionManager) List() []SessionSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupExpired()
	summaries := make([]SessionSummary, 0, len(m.sessions))
	for _, info := range m.sessions {
		summaries = append(summaries, SessionSummary{
			ID:            info.ID,
			CreatedAt:     float64(info.CreatedAt.UnixMilli()) / 1000,
			LastAccessed:  float64(info.LastAccessed.UnixMilli()) / 1000,
			VariableCount: len(info.Session.VariableNames()),
		})
	}
	return summaries
}

// Persist writes the session's scalar bindings to the store. Lambdas,
// collections and plot values do not round-trip through text and are
// skipped.
func (m *SessionManager) Persist(info *SessionInfo) {
	if m.store == nil {
		return
	}
	bindings := make(map[string]store.Binding)
	for name, value := range info.Session.Variables() {
		switch value.(type) {
		case *object.Integer, *object.Float, *object.Boolean, *object.String:
			bindings[name] = store.Binding{Value: value.Inspect(), TypeName: value.TypeName()}
		}
	}
	if err := m.store.SaveSession(info.ID, bindings); err != nil {
		slog.Warn("store save failed", slog.String("session", info.ID), slog.Any("error", err))
	}
}

// reviveLocked rebuilds a session from stored bindings. Caller holds mu.
func (m *SessionManager) reviveLocked(sessionID string) *SessionInfo {
	if m.store == nil {
		return nil
	}
	bindings, err := m.store.LoadSession(sessionID)
	if err != nil {
		slog.Warn("store load failed", slog.String("session", sessionID), slog.Any("error", err))
		return nil
	}
	if len(bindings) == 0 {
		return nil
	}

	now := time.Now()
	info := &SessionInfo{
		ID:           sessionID,
		Session:      object.NewSession(),
		CreatedAt:    now,
		LastAccessed: now,
	}
	for name, b := range bindings {
		if value := rebuildScalar(b); value != nil {
			info.Session.Set(name, value)
		}
	}
	m.sessions[sessionID] = info
	return info
}

func rebuildScalar(b store.Binding) object.Object {
	switch b.TypeName {
	case "Integer":
		if n, err := strconv.ParseInt(b.Value, 10, 64); err == nil {
			return &object.Integer{Value: n}
		}
	case "Float":
		if f, err := strconv.ParseFloat(b.Value, 64); err == nil {
			return &object.Float{Value: f}
		}
	case "Boolean":
		return &object.Boolean{Value: b.Value == "true"}
	case "String":
		return &object.String{Value: b.Value}
	}
	return nil
}

// cleanupExpired removes idle sessions. Caller holds mu.
func (m *SessionManager) cleanupExpired() {
	cutoff := time.Now().Add(-m.ttl)
	for id, info := range m.sessions {
		if info.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
