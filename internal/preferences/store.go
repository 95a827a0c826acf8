package preferences

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jwtly10/go-nextstep/internal/db"
)

var ErrNotFound = errors.New("preference not found")

// Store persists small JSON encoded values by key. Writes are last-write-wins.
type Store struct {
	db *db.Database
}

func NewStore(db *db.Database) *Store {
	return &Store{db: db}
}

// Get decodes the value stored under key into out, or returns ErrNotFound
func (s *Store) Get(key string, out any) error {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read preference %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("failed to decode preference %s: %w", key, err)
	}
	return nil
}

func (s *Store) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode preference %s: %w", key, err)
	}

	_, err = s.db.Exec(`
        INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
    `, key, string(data), time.Now())
	if err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM preferences ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Typed helpers

// Bool returns the stored bool, or def if nothing is stored
func (s *Store) Bool(key string, def bool) (bool, error) {
	var v bool
	if err := s.Get(key, &v); err != nil {
		if errors.Is(err, ErrNotFound) {
			return def, nil
		}
		return def, err
	}
	return v, nil
}

func (s *Store) SetBool(key string, v bool) error {
	return s.Set(key, v)
}

// Time returns the stored time and whether one was stored
func (s *Store) Time(key string) (time.Time, bool, error) {
	var v time.Time
	if err := s.Get(key, &v); err != nil {
		if errors.Is(err, ErrNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return v, true, nil
}

func (s *Store) SetTime(key string, t time.Time) error {
	return s.Set(key, t)
}

func (s *Store) String(key string) (string, bool, error) {
	var v string
	if err := s.Get(key, &v); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (s *Store) SetString(key, v string) error {
	return s.Set(key, v)
}
