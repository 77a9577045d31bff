package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open("sqlite3", filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("postgres", ""); err == nil {
		t.Errorf("expected an error for an unsupported driver")
	}
}

func TestSaveAndLoad(t *testing.T) {
	st := openTestStore(t)

	bindings := map[string]Binding{
		"x":    {Value: "10", TypeName: "Integer"},
		"rate": {Value: "2.5", TypeName: "Float"},
		"name": {Value: "euler", TypeName: "String"},
		"flag": {Value: "true", TypeName: "Boolean"},
	}
	if err := st.SaveSession("s1", bindings); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	loaded, err := st.LoadSession("s1")
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if len(loaded) != len(bindings) {
		t.Fatalf("expected %d bindings, got %d", len(bindings), len(loaded))
	}
	for name, want := range bindings {
		if got := loaded[name]; got != want {
			t.Errorf("binding %s: expected %+v, got %+v", name, want, got)
		}
	}
}

func TestSaveReplacesPreviousBindings(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveSession("s1", map[string]Binding{
		"old": {Value: "1", TypeName: "Integer"},
	}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := st.SaveSession("s1", map[string]Binding{
		"new": {Value: "2", TypeName: "Integer"},
	}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := st.LoadSession("s1")
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if _, ok := loaded["old"]; ok {
		t.Errorf("stale binding survived the replace")
	}
	if loaded["new"].Value != "2" {
		t.Errorf("expected new binding, got %+v", loaded)
	}
}

func TestLoadUnknownSessionIsEmpty(t *testing.T) {
	st := openTestStore(t)

	loaded, err := st.LoadSession("never-seen")
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected an empty map, got %+v", loaded)
	}
}

func TestDeleteSession(t *testing.T) {
	st := openTestStore(t)

	if err := st.SaveSession("s1", map[string]Binding{
		"x": {Value: "1", TypeName: "Integer"},
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := st.DeleteSession("s1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	loaded, err := st.LoadSession("s1")
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("bindings survived delete: %+v", loaded)
	}
}
