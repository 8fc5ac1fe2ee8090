package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Akashdeep-Patra/sdash/internal/survey"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fixtureFile is the on-disk layout of an offline data file.
type fixtureFile struct {
	Surveys  []survey.Survey `json:"surveys"`
	Overview survey.Overview `json:"overview"`
}

// FileService serves surveys from a local JSON file, for demos and offline
// use. Every call re-reads the file so external edits are picked up; writes
// go through a temp file and rename.
type FileService struct {
	path string
	log  *zap.Logger
	mu   sync.Mutex
}

// Compile-time check.
var _ Service = (*FileService)(nil)

// NewFileService opens (or creates) the fixture file at path.
func NewFileService(path string, log *zap.Logger) (*FileService, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve data file %s: %w", path, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &FileService{path: abs, log: log}
	if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
		if err := s.write(fixtureFile{Surveys: []survey.Survey{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat data file %s: %w", abs, err)
	}
	return s, nil
}

// Endpoint returns the absolute path of the data file.
func (s *FileService) Endpoint() string { return s.path }

// ListSurveys returns every survey in file order.
func (s *FileService) ListSurveys(ctx context.Context) ([]survey.Survey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return nil, err
	}
	return f.Surveys, nil
}

// CreateSurvey appends d under a fresh id.
func (s *FileService) CreateSurvey(ctx context.Context, d survey.Draft) (survey.Survey, error) {
	if err := ctx.Err(); err != nil {
		return survey.Survey{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return survey.Survey{}, err
	}
	created := d.WithID(uuid.New().String())
	f.Surveys = append(f.Surveys, created)
	if err := s.write(f); err != nil {
		return survey.Survey{}, err
	}
	s.log.Debug("fixture create", zap.String("id", created.ID))
	return created, nil
}

// UpdateSurvey replaces the survey with the given id.
func (s *FileService) UpdateSurvey(ctx context.Context, id string, d survey.Draft) (survey.Survey, error) {
	if err := ctx.Err(); err != nil {
		return survey.Survey{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return survey.Survey{}, err
	}
	for i := range f.Surveys {
		if f.Surveys[i].ID == id {
			f.Surveys[i] = d.WithID(id)
			if err := s.write(f); err != nil {
				return survey.Survey{}, err
			}
			return f.Surveys[i], nil
		}
	}
	return survey.Survey{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
}

// DeleteSurvey removes the survey with the given id.
func (s *FileService) DeleteSurvey(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return err
	}
	for i := range f.Surveys {
		if f.Surveys[i].ID == id {
			f.Surveys = append(f.Surveys[:i], f.Surveys[i+1:]...)
			return s.write(f)
		}
	}
	return fmt.Errorf("delete %s: %w", id, ErrNotFound)
}

// Overview returns the file's overview block.
func (s *FileService) Overview(ctx context.Context) (survey.Overview, error) {
	if err := ctx.Err(); err != nil {
		return survey.Overview{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return survey.Overview{}, err
	}
	return f.Overview, nil
}

func (s *FileService) read() (fixtureFile, error) {
	var f fixtureFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		return f, fmt.Errorf("read data file %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse data file %s: %w", s.path, err)
	}
	return f, nil
}

func (s *FileService) write(f fixtureFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize data file: %w", err)
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write data file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace data file %s: %w", s.path, err)
	}
	return nil
}
