// Package exclusion tracks PDB entries confirmed to lack usable
// crystallization details, so later runs skip them without re-fetching.
package exclusion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"crystaldb/pkg/logger"
)

// Set is a persisted set of PDB IDs without usable details. The file is
// a JSON array of strings and is only ever overwritten whole.
type Set struct {
	path   string
	ids    map[string]struct{}
	mu     sync.RWMutex
	logger logger.Logger
}

// NewSet creates a set bound to the given file path
func NewSet(path string) *Set {
	return &Set{
		path:   path,
		ids:    make(map[string]struct{}),
		logger: logger.GetLogger(),
	}
}

// Load reads the exclusion file from disk. An absent file is not an
// error: the set starts empty and a new file is created on save.
func (s *Set) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = make(map[string]struct{})

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.InfoWithFields("exclusion file not found, a new one will be created", map[string]interface{}{
				"path": s.path,
			})
			return nil
		}
		return fmt.Errorf("failed to read exclusion file: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("failed to decode exclusion file: %w", err)
	}

	for _, id := range ids {
		s.ids[id] = struct{}{}
	}

	s.logger.InfoWithFields("exclusion file loaded", map[string]interface{}{
		"path":  s.path,
		"count": len(s.ids),
	})

	return nil
}

// Save writes the full set to disk atomically as a JSON array
func (s *Set) Save() error {
	s.mu.RLock()
	ids := s.sortedIDs()
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create exclusion directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary exclusion file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ids); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode exclusion set: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync exclusion file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close exclusion file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace exclusion file: %w", err)
	}

	s.logger.DebugWithFields("exclusion file saved", map[string]interface{}{
		"path":  s.path,
		"count": len(ids),
	})

	return nil
}

// Add records a PDB ID as lacking usable details
func (s *Set) Add(pdbid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[pdbid] = struct{}{}
}

// Contains reports whether a PDB ID is excluded
func (s *Set) Contains(pdbid string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[pdbid]
	return ok
}

// Len returns the number of excluded IDs
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns all excluded PDB IDs in sorted order
func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedIDs()
}

// Path returns the file path the set is bound to
func (s *Set) Path() string {
	return s.path
}

// sortedIDs returns the IDs sorted; callers must hold the lock
func (s *Set) sortedIDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
