// Package history stores lines evaluated in the interactive shell.
package history

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one evaluated line.
type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	Line    string
	Backend string
	Failed  bool
}

// Manager persists entries in a sqlite database.
type Manager struct {
	db *gorm.DB
}

func NewManager(dbFilePath string) (*Manager, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening history database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("error auto-migrating history schema: %w", err)
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Record(line string, backend string, failed bool) error {
	entry := Entry{
		Line:    line,
		Backend: backend,
		Failed:  failed,
	}
	return m.db.Create(&entry).Error
}

// Entries returns up to limit entries, oldest first.
func (m *Manager) Entries(limit int) ([]Entry, error) {
	var entries []Entry
	result := m.db.Order("id desc").Limit(limit).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	slices.Reverse(entries)
	return entries, nil
}

// RecentCommands returns up to limit distinct lines, most recent first.
func (m *Manager) RecentCommands(limit int) ([]string, error) {
	var entries []Entry
	result := m.db.Order("id desc").Limit(limit * 4).Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return distinctLines(entries, limit), nil
}

func (m *Manager) Reset() error {
	return m.db.Exec("DELETE FROM entries").Error
}

func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Store is the history interface used by the shell.
type Store interface {
	Record(line string, backend string, failed bool) error
	Entries(limit int) ([]Entry, error)
	RecentCommands(limit int) ([]string, error)
	Reset() error
	Close() error
}

var (
	_ Store = (*Manager)(nil)
	_ Store = (*Memory)(nil)
)

// Memory keeps entries for the lifetime of the process only.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(line string, backend string, failed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{
		ID:        uint(len(m.entries) + 1),
		CreatedAt: time.Now(),
		Line:      line,
		Backend:   backend,
		Failed:    failed,
	})
	return nil
}

func (m *Memory) Entries(limit int) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	start := max(len(m.entries)-limit, 0)
	return slices.Clone(m.entries[start:]), nil
}

func (m *Memory) RecentCommands(limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reversed := slices.Clone(m.entries)
	slices.Reverse(reversed)
	return distinctLines(reversed, limit), nil
}

func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// distinctLines keeps the first occurrence of each line in newest-first order.
func distinctLines(newestFirst []Entry, limit int) []string {
	seen := make(map[string]bool, len(newestFirst))
	lines := make([]string, 0, limit)
	for _, e := range newestFirst {
		if seen[e.Line] {
			continue
		}
		seen[e.Line] = true
		lines = append(lines, e.Line)
		if len(lines) == limit {
			break
		}
	}
	return lines
}
