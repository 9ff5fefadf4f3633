package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rgehrsitz/sipgo/internal/domain"
	"gopkg.in/yaml.v3"
)

type fileRecord struct {
	Profile   domain.RiskProfile `yaml:"profile"`
	UpdatedAt time.Time          `yaml:"updated_at"`
}

type fileDocument struct {
	Profiles map[string]fileRecord `yaml:"profiles"`
}

// FileStore keeps profiles in a YAML document, rewritten atomically on each Set
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (or lazily creates) the document at path
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("profile file path is required")
	}
	s := &FileStore{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() (*fileDocument, error) {
	doc := &fileDocument{Profiles: map[string]fileRecord{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", s.path, err)
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse profile file %s: %w", s.path, err)
	}
	if doc.Profiles == nil {
		doc.Profiles = map[string]fileRecord{}
	}
	return doc, nil
}

func (s *FileStore) Get(ctx context.Context, userID string) (domain.RiskProfile, error) {
	if err := validateUser("profile_get", userID); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return "", err
	}
	rec, ok := doc.Profiles[userID]
	if !ok {
		return "", notFound("profile_get", userID)
	}
	return rec.Profile, nil
}

func (s *FileStore) Set(ctx context.Context, userID string, p domain.RiskProfile) error {
	if err := validate("profile_set", userID, p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Profiles[userID] = fileRecord{Profile: p, UpdatedAt: time.Now().UTC()}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".profiles-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp profile file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace profile file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
