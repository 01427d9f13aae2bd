package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/accretion/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.db"
)

// ErrRunNotFound is returned when a run directory has no metadata.
var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run below baseDir:
//
//	<baseDir>/<run-id>/metadata.json
//	<baseDir>/<run-id>/frames.db
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID                 string             `json:"id"`
	Generator          string             `json:"generator"`
	Integrator         string             `json:"integrator"`
	Timestamp          time.Time          `json:"timestamp"`
	Seed               int64              `json:"seed"`
	TimeStep           float64            `json:"time_step"`
	SubSteps           int                `json:"sub_steps_per_frame"`
	Drag               float64            `json:"drag_coefficient"`
	CollisionThreshold float64            `json:"collision_threshold"`
	MinBodies          int                `json:"min_bodies"`
	MaxSteps           int                `json:"max_steps"`
	InitialBodies      int                `json:"initial_bodies"`
	Width              int                `json:"width"`
	Height             int                `json:"height"`
	Density            float64            `json:"density"`
	Frames             int                `json:"frames"`
	Merges             int                `json:"merges"`
	FinalBodies        int                `json:"final_bodies"`
	Stop               string             `json:"stop"`
	Metrics            map[string]float64 `json:"metrics"`
}

// Finish copies the summary of a finished run into the metadata.
func (m *RunMetadata) Finish(res *dynamo.Result) {
	if res == nil {
		return
	}
	m.Frames = res.StepsTaken
	m.Merges = res.Merges
	m.FinalBodies = res.FinalBodies
	m.Stop = string(res.Stop)
	m.Metrics = res.Metrics
}

// newRunID derives a unique directory name from the generator and the
// creation time, adding a counter when the second is already taken.
func (s *Store) newRunID(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "run"
	}
	base := fmt.Sprintf("%s_%s", prefix, now.UTC().Format("20060102-150405"))
	id := base
	for i := 2; ; i++ {
		if _, err := os.Stat(s.Dir(id)); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func (s *Store) writeMetadata(meta *RunMetadata) error {
	metaPath := filepath.Join(s.Dir(meta.ID), metadataFile)
	tmp := metaPath + ".tmp"
	metaFile, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, metaPath)
}

// List returns all runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), metadataFile)
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.Dir(runID), metadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", metaPath, err)
	}

	return &meta, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs in %s", ErrRunNotFound, s.baseDir)
	}
	return &runs[len(runs)-1], nil
}
