// Package store persists the resume position of a presentation between runs.
//
// Every store returns (0, nil) from Load when nothing was saved yet, so the
// engine can treat "no position" and "start of deck" alike.
package store

import (
	"context"
	"sync"
	"time"
)

// Memory keeps the position in process. It is the store used by tests and
// by renders, which never resume.
type Memory struct {
	mu    sync.Mutex
	pos   time.Duration
	saves int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos, nil
}

func (m *Memory) Save(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pos = d
	m.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
