package statefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"birthday_reminder_bot/internal/domain/runstate"
)

const dateLayout = "2006-01-02"

// fileState is the on-disk shape of the run state.
type fileState struct {
	LastCompletedDate string `json:"last_completed_date"`
}

// Store persists the RunState as a small JSON file. Saves go through a
// temporary file in the same directory followed by a rename, so a crash
// mid-write leaves either the previous file or the new one, never a torn
// mix.
type Store struct {
	path string
	loc  *time.Location
}

func NewStore(path string, loc *time.Location) *Store {
	return &Store{path: path, loc: loc}
}

func (s *Store) Load(_ context.Context) (*runstate.RunState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, runstate.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", s.path, err)
	}

	var fs fileState
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}

	date, err := time.ParseInLocation(dateLayout, fs.LastCompletedDate, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q in state file %s: %w", fs.LastCompletedDate, s.path, err)
	}

	return &runstate.RunState{LastCompletedDate: date}, nil
}

func (s *Store) Save(_ context.Context, state *runstate.RunState) error {
	data, err := json.MarshalIndent(fileState{
		LastCompletedDate: state.LastCompletedDate.Format(dateLayout),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file %s: %w", s.path, err)
	}
	return nil
}
