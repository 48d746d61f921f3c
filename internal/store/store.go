// Package store keeps the processed transaction list in memory with a JSON
// file behind it. Mutations are persisted explicitly so the API layer can
// write once per request.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/TKcodes-bit/Momo-app-code-bit/internal/logging"
	"github.com/TKcodes-bit/Momo-app-code-bit/internal/models"
)

// ErrNotFound is returned for lookups and mutations on an unknown id.
var ErrNotFound = errors.New("transaction not found")

// Store is an in-memory transaction list with id lookups and a JSON file as
// its persistence target. All methods are safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	path       string
	logger     logging.Logger
	records    []models.TransactionRecord
	index      map[string]int
	nextSuffix int
}

// New creates a Store persisting to the given JSON file path.
func New(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Store{
		path:       path,
		logger:     logger,
		index:      make(map[string]int),
		nextSuffix: 1,
	}
}

// Load reads the backing JSON file. A missing file yields an empty store; a
// corrupt file is logged and also yields an empty store, so the API can still
// start.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.records = nil
			s.reindex()
			return nil
		}
		return fmt.Errorf("failed to read store file: %w", err)
	}

	var records []models.TransactionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.WithError(err).WithField("file", s.path).Warn("Store file is corrupt, starting empty")
		records = nil
	}

	s.records = records
	s.reindex()

	s.logger.WithFields(
		logging.F("file", s.path),
		logging.F("count", len(s.records)),
	).Info("Loaded transaction store")
	return nil
}

// Replace swaps the full record list, e.g. after a pipeline run.
func (s *Store) Replace(records []models.TransactionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]models.TransactionRecord, len(records))
	copy(s.records, records)
	s.reindex()
}

// List returns a copy of the record list in insertion order.
func (s *Store) List() []models.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TransactionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get looks up one record by id.
func (s *Store) Get(id string) (models.TransactionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return models.TransactionRecord{}, false
	}
	return s.records[pos], true
}

// Create appends a record. An absent or colliding id is replaced with a
// freshly generated one; the stored record is returned.
func (s *Store) Create(record models.TransactionRecord) models.TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(record.ID)
	if id == "" {
		id = s.generateID()
	} else if _, taken := s.index[id]; taken {
		id = s.generateID()
	}
	record.ID = id

	s.records = append(s.records, record)
	s.index[id] = len(s.records) - 1
	s.trackSuffix(id)
	return record
}

// Update replaces the stored record's fields, keeping its id. The id is
// immutable: any id carried in the incoming record is discarded.
func (s *Store) Update(id string, record models.TransactionRecord) (models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return models.TransactionRecord{}, ErrNotFound
	}

	record.ID = id
	s.records[pos] = record
	return record, nil
}

// Delete removes a record by id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}

	s.records = append(s.records[:pos], s.records[pos+1:]...)
	s.reindex()
	return nil
}

// Persist writes the current record list as indented JSON.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	records := s.records
	if records == nil {
		records = []models.TransactionRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if err := os.WriteFile(s.path, data, models.PermissionDataFile); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

// reindex rebuilds the id index, assigns generated ids to records without
// one, and recomputes the next numeric suffix. Callers hold the write lock.
func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.records))
	s.nextSuffix = 1

	for i := range s.records {
		s.trackSuffix(s.records[i].ID)
	}
	for i := range s.records {
		if strings.TrimSpace(s.records[i].ID) == "" {
			s.records[i].ID = s.generateID()
		}
		s.index[s.records[i].ID] = i
	}
}

// generateID returns the next free TXN_ id. Callers hold the write lock.
func (s *Store) generateID() string {
	for {
		id := fmt.Sprintf("%s%06d", models.IDPrefix, s.nextSuffix)
		s.nextSuffix++
		if _, taken := s.index[id]; !taken {
			return id
		}
	}
}

// trackSuffix advances the suffix counter past an existing TXN_ numeric id.
func (s *Store) trackSuffix(id string) {
	if !strings.HasPrefix(id, models.IDPrefix) {
		return
	}
	suffix, err := strconv.Atoi(strings.TrimPrefix(id, models.IDPrefix))
	if err != nil {
		return
	}
	if suffix >= s.nextSuffix {
		s.nextSuffix = suffix + 1
	}
}
