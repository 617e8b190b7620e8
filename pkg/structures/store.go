package structures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"crystaldb/pkg/logger"
)

// Store holds the persisted collection of structures, keyed by PDB ID.
// The whole collection is loaded and saved as a unit.
type Store struct {
	path    string
	records map[string]*Structure
	mu      sync.RWMutex
	logger  logger.Logger
}

// NewStore creates a store bound to the given file path
func NewStore(path string) *Store {
	return &Store{
		path:    path,
		records: make(map[string]*Structure),
		logger:  logger.GetLogger(),
	}
}

// Load reads the structure file from disk. An absent file is not an
// error: the store starts empty and a new file is created on save.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*Structure)

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.InfoWithFields("structure file not found, a new one will be created", map[string]interface{}{
				"path": s.path,
			})
			return nil
		}
		return fmt.Errorf("failed to open structure file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s.records); err != nil {
		return fmt.Errorf("failed to decode structure file: %w", err)
	}

	s.logger.InfoWithFields("structure file loaded", map[string]interface{}{
		"path":    s.path,
		"records": len(s.records),
	})

	return nil
}

// Save writes the full collection to disk atomically
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create structure directory: %w", err)
	}

	// Write to a temporary file and rename so a crash mid-write never
	// corrupts the previous checkpoint.
	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary structure file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.records); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode structures: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync structure file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close structure file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace structure file: %w", err)
	}

	s.logger.DebugWithFields("structure file saved", map[string]interface{}{
		"path":    s.path,
		"records": len(s.records),
	})

	return nil
}

// Put inserts a structure, replacing any existing record for the same
// PDB ID entirely. There is no field-level merge.
func (s *Store) Put(structure *Structure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[structure.PDBID] = structure
}

// Get returns the structure for a PDB ID, or nil if absent
func (s *Store) Get(pdbid string) *Structure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[pdbid]
}

// Has reports whether a record exists for the given PDB ID
func (s *Store) Has(pdbid string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[pdbid]
	return ok
}

// Len returns the number of stored records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// IDs returns the PDB IDs of all stored records
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	return ids
}

// Records returns a copy of the identifier to structure mapping
func (s *Store) Records() map[string]*Structure {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make(map[string]*Structure, len(s.records))
	for id, structure := range s.records {
		records[id] = structure
	}
	return records
}

// Path returns the file path the store is bound to
func (s *Store) Path() string {
	return s.path
}
