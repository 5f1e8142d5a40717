package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Filters holds operator-maintained ignore rules layered on top of the
// built-in automated-mail keywords.
type Filters struct {
	IgnoreSenders           []string `json:"ignoreSenders"`
	IgnoreKeywordsInSubject []string `json:"ignoreKeywordsInSubject"`
}

// FilterManager handles loading, saving, and accessing filter rules.
type FilterManager struct {
	filePath string
	filters  *Filters
	mu       sync.RWMutex
}

// NewFilterManager creates a filter manager backed by filePath. A missing file
// is created with empty rules.
func NewFilterManager(filePath string) (*FilterManager, error) {
	m := &FilterManager{
		filePath: filePath,
		filters:  &Filters{},
	}
	if err := m.LoadFilters(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFilters loads filter rules from the JSON file.
func (m *FilterManager) LoadFilters() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.filters = &Filters{
				IgnoreSenders:           []string{},
				IgnoreKeywordsInSubject: []string{},
			}
			return m.saveFilters()
		}
		return err
	}

	var filters Filters
	if err := json.Unmarshal(data, &filters); err != nil {
		return err
	}
	m.filters = &filters
	return nil
}

// saveFilters writes the current rules. Callers hold the lock.
func (m *FilterManager) saveFilters() error {
	if dir := filepath.Dir(m.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(m.filters, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filePath, data, 0644)
}

// GetFilters returns a copy of the current filters.
func (m *FilterManager) GetFilters() Filters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Filters{
		IgnoreSenders:           append([]string(nil), m.filters.IgnoreSenders...),
		IgnoreKeywordsInSubject: append([]string(nil), m.filters.IgnoreKeywordsInSubject...),
	}
}

// AddIgnoreSender adds a sender to the ignore list and saves.
func (m *FilterManager) AddIgnoreSender(sender string) error {
	return m.add(func(f *Filters) *[]string { return &f.IgnoreSenders }, sender)
}

// AddIgnoreKeywordInSubject adds a subject keyword to the ignore list and saves.
func (m *FilterManager) AddIgnoreKeywordInSubject(keyword string) error {
	return m.add(func(f *Filters) *[]string { return &f.IgnoreKeywordsInSubject }, keyword)
}

func (m *FilterManager) add(pick func(*Filters) *[]string, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list := pick(m.filters)
	for _, existing := range *list {
		if strings.EqualFold(existing, value) {
			return nil
		}
	}
	*list = append(*list, value)
	return m.saveFilters()
}
