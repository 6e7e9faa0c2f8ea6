package snapshot

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/duckyhq/ducky/snapshot/contracts"
	"github.com/duckyhq/ducky/snapshot/models"
	"github.com/duckyhq/ducky/utils"
	watcher_models "github.com/duckyhq/ducky/watcher/models"
)

// registryData is the persisted project registry.
type registryData struct {
	NextID   int64
	Projects map[string]models.Project // keyed by normalized path
}

// Store is a gob-backed snapshot store. All state is held in memory and
// written through to the snapshot directory on every mutation.
type Store struct {
	dir        string
	mutex      sync.RWMutex
	registry   registryData
	files      map[int64]map[string]models.FileRecord // projectID -> path -> record
	dismissals []models.Dismissal
}

// NewStore opens (or creates) a snapshot store rooted at dir. If dir is
// empty, ".ducky" under the current working directory is used.
func NewStore(dir string) (contracts.ISnapshotStore, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = filepath.Join(cwd, ".ducky")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	store := &Store{
		dir:      dir,
		registry: registryData{NextID: 1, Projects: make(map[string]models.Project)},
		files:    make(map[int64]map[string]models.FileRecord),
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	return store, nil
}

// HashContent returns the xxh3 hash used for cheap content equality checks.
func HashContent(content string) uint64 {
	return xxh3.HashString(content)
}

func (s *Store) RegisterProject(path string, name string, notificationPreference string) (*models.Project, error) {
	normalized := utils.NormalizePath(path)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, ok := s.registry.Projects[normalized]; ok {
		return &existing, nil
	}

	project := models.Project{
		ID:                     s.registry.NextID,
		Name:                   name,
		Path:                   normalized,
		NotificationPreference: notificationPreference,
	}
	s.registry.NextID++
	s.registry.Projects[normalized] = project
	s.files[project.ID] = make(map[string]models.FileRecord)

	if err := s.saveRegistry(); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *Store) GetProjectByPath(path string) (*models.Project, bool) {
	normalized := utils.NormalizePath(path)

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	project, ok := s.registry.Projects[normalized]
	if !ok {
		return nil, false
	}
	return &project, true
}

func (s *Store) FileIndex(projectID int64) (map[string]models.FileRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records, ok := s.files[projectID]
	if !ok {
		return map[string]models.FileRecord{}, nil
	}

	index := make(map[string]models.FileRecord, len(records))
	for path, record := range records {
		index[path] = record
	}
	return index, nil
}

func (s *Store) ProjectFiles(projectID int64, excludePath string) ([]models.FileRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []models.FileRecord
	for path, record := range s.files[projectID] {
		if record.IsDir || path == excludePath {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

func (s *Store) ApplyChanges(changes []watcher_models.FileChange) error {
	if len(changes) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	touched := make(map[int64]struct{})
	for _, change := range changes {
		records, ok := s.files[change.ProjectID]
		if !ok {
			records = make(map[string]models.FileRecord)
			s.files[change.ProjectID] = records
		}
		touched[change.ProjectID] = struct{}{}

		if change.NewVersion == "" && !change.IsNewFile {
			// Deletion: drop the record entirely.
			delete(records, change.Path)
			continue
		}

		records[change.Path] = models.FileRecord{
			Path:     change.Path,
			Name:     change.Filename,
			IsDir:    change.IsDir,
			Content:  change.NewVersion,
			Hash:     HashContent(change.NewVersion),
			LastEdit: change.LastEdit,
		}
	}

	for projectID := range touched {
		if err := s.saveFiles(projectID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) AddDismissal(dismissal models.Dismissal) error {
	if dismissal.ID == "" {
		dismissal.ID = uuid.NewString()
	}
	if dismissal.CreatedAt.IsZero() {
		dismissal.CreatedAt = time.Now()
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.dismissals = append(s.dismissals, dismissal)
	return s.saveDismissals()
}

func (s *Store) ListDismissals(projectID int64) ([]models.Dismissal, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []models.Dismissal
	for _, dismissal := range s.dismissals {
		if dismissal.ProjectID == projectID {
			result = append(result, dismissal)
		}
	}
	return result, nil
}

func (s *Store) Reset() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read snapshot directory: %w", err)
	}
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) != ".gob" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}

	s.registry = registryData{NextID: 1, Projects: make(map[string]models.Project)}
	s.files = make(map[int64]map[string]models.FileRecord)
	s.dismissals = nil
	return nil
}

// load reads any persisted state from the snapshot directory. Missing files
// are not errors; corrupt files are treated as absent.
func (s *Store) load() error {
	if err := s.readGob("registry.gob", &s.registry); err != nil {
		s.registry = registryData{NextID: 1, Projects: make(map[string]models.Project)}
	}
	if s.registry.Projects == nil {
		s.registry.Projects = make(map[string]models.Project)
	}
	if s.registry.NextID == 0 {
		s.registry.NextID = 1
	}

	for _, project := range s.registry.Projects {
		records := make(map[string]models.FileRecord)
		if err := s.readGob(filesName(project.ID), &records); err != nil {
			records = make(map[string]models.FileRecord)
		}
		s.files[project.ID] = records
	}

	var dismissals []models.Dismissal
	if err := s.readGob("dismissals.gob", &dismissals); err == nil {
		s.dismissals = dismissals
	}
	return nil
}

func filesName(projectID int64) string {
	return fmt.Sprintf("files_%d.gob", projectID)
}

func (s *Store) saveRegistry() error {
	return s.writeGob("registry.gob", s.registry)
}

func (s *Store) saveFiles(projectID int64) error {
	return s.writeGob(filesName(projectID), s.files[projectID])
}

func (s *Store) saveDismissals() error {
	return s.writeGob("dismissals.gob", s.dismissals)
}

func (s *Store) readGob(name string, target interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}

func (s *Store) writeGob(name string, value interface{}) error {
	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(value); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
