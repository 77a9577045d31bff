// Package store persists session variable bindings through database/sql.
// The driver is chosen by configuration; sqlite3 covers the single-file
// local case and mysql the shared one.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Binding is one persisted variable: the rendered value and its type name,
// enough to rebuild scalar objects on reload.
type Binding struct {
	Value    string
	TypeName string
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS session_bindings (
	session_id VARCHAR(64)  NOT NULL,
	name       VARCHAR(255) NOT NULL,
	value      TEXT         NOT NULL,
	type_name  VARCHAR(32)  NOT NULL,
	PRIMARY KEY (session_id, name)
)`

// Open connects with the named driver and creates the schema if absent.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "sqlite3", "mysql":
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("session store opened", slog.String("driver", driver))
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession replaces the stored bindings for a session with the given
// set, transactionally so a crash never leaves a half-written session.
func (s *Store) SaveSession(sessionID string, bindings map[string]Binding) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM session_bindings WHERE session_id = ?`, sessionID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO session_bindings (session_id, name, value, type_name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for name, b := range bindings {
		if _, err := stmt.Exec(sessionID, name, b.Value, b.TypeName); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSession returns the stored bindings for a session. A session with
// nothing stored returns an empty map, not an error.
func (s *Store) LoadSession(sessionID string) (map[string]Binding, error) {
	rows, err := s.db.Query(
		`SELECT name, value, type_name FROM session_bindings WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bindings := make(map[string]Binding)
	for rows.Next() {
		var name string
		var b Binding
		if err := rows.Scan(&name, &b.Value, &b.TypeName); err != nil {
			return nil, err
		}
		bindings[name] = b
	}
	return bindings, rows.Err()
}

func (s *Store) DeleteSession(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM session_bindings WHERE session_id = ?`, sessionID)
	return err
}
