// Package jsonfile persists credentials and timer state to plain JSON files
// in the user's home directory. There is no schema versioning; a missing file
// is empty state, a corrupt file is empty state plus an error for the caller
// to log.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/punchbar/punchbar/internal/domain"
)

type persistedCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type persistedTimer struct {
	ClockInTime *float64 `json:"clock_in_time"`
}

// ConfigStore reads and writes the credentials file.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

func NewConfigStore(filePath string) *ConfigStore {
	return &ConfigStore{filePath: filePath}
}

func (s *ConfigStore) Load() (domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return domain.Credentials{}, nil
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("read config %s: %w", s.filePath, err)
	}
	var pc persistedCredentials
	if err := json.Unmarshal(data, &pc); err != nil {
		return domain.Credentials{}, fmt.Errorf("parse config %s: %w", s.filePath, err)
	}
	return domain.Credentials{Email: pc.Email, Password: pc.Password}, nil
}

func (s *ConfigStore) Save(c domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(persistedCredentials{Email: c.Email, Password: c.Password}, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(s.filePath, data, 0600)
}

// TimerStore reads and writes the clock-in timestamp file. The timestamp is
// stored as float epoch seconds, null when no timer is running.
type TimerStore struct {
	mu       sync.Mutex
	filePath string
}

func NewTimerStore(filePath string) *TimerStore {
	return &TimerStore{filePath: filePath}
}

func (s *TimerStore) Load() (domain.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return domain.TimerState{}, nil
	}
	if err != nil {
		return domain.TimerState{}, fmt.Errorf("read timer state %s: %w", s.filePath, err)
	}
	var pt persistedTimer
	if err := json.Unmarshal(data, &pt); err != nil {
		return domain.TimerState{}, fmt.Errorf("parse timer state %s: %w", s.filePath, err)
	}
	if pt.ClockInTime == nil {
		return domain.TimerState{}, nil
	}
	sec, frac := math.Modf(*pt.ClockInTime)
	at := time.Unix(int64(sec), int64(frac*float64(time.Second)))
	return domain.TimerState{ClockedInAt: &at}, nil
}

func (s *TimerStore) Save(t domain.TimerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pt persistedTimer
	if t.ClockedInAt != nil {
		epoch := float64(t.ClockedInAt.UnixNano()) / float64(time.Second)
		pt.ClockInTime = &epoch
	}
	data, err := json.MarshalIndent(pt, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(s.filePath, data, 0644)
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}
