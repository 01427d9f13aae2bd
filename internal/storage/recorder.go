package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/accretion/internal/dynamo"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS sim (
	ix    INTEGER PRIMARY KEY,
	x     TEXT NOT NULL,
	v     TEXT NOT NULL,
	m     TEXT NOT NULL,
	color TEXT NOT NULL,
	x_pre TEXT NOT NULL,
	lock  INTEGER NOT NULL
)`

const insertFrame = `INSERT INTO sim (ix, x, v, m, color, x_pre, lock) VALUES (?, ?, ?, ?, ?, ?, ?)`

// Recorder persists every frame of a run as one row of the sim table.
// Rows are committed in batches of saveEvery frames; a crash loses at most
// the current batch. Recorder is an observer for sim.Simulator.
type Recorder struct {
	store     *Store
	meta      RunMetadata
	db        *sql.DB
	tx        *sql.Tx
	insert    *sql.Stmt
	saveEvery int
	pending   int
	logger    *log.Logger
}

// Create allocates a new run directory, writes its initial metadata and
// opens the frame database. meta.ID and meta.Timestamp are filled in.
func (s *Store) Create(meta RunMetadata, saveEvery int, logger *log.Logger) (*Recorder, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = s.newRunID(meta.Generator, meta.Timestamp)
	meta.Stop = "running"

	dir := s.Dir(meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if err := s.writeMetadata(&meta); err != nil {
		return nil, err
	}

	db, err := openDB(filepath.Join(dir, framesFile))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	insert, err := db.Prepare(insertFrame)
	if err != nil {
		db.Close()
		return nil, err
	}

	r := &Recorder{
		store:     s,
		meta:      meta,
		db:        db,
		insert:    insert,
		saveEvery: saveEvery,
		logger:    logger.With("run", meta.ID),
	}
	if err := r.begin(); err != nil {
		db.Close()
		return nil, err
	}
	r.logger.Info("recording", "dir", dir, "save_steps", saveEvery)
	return r, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func (r *Recorder) ID() string { return r.meta.ID }

func (r *Recorder) Metadata() RunMetadata { return r.meta }

func (r *Recorder) begin() error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	r.tx = tx
	return nil
}

func (r *Recorder) commit() error {
	if r.tx == nil {
		return nil
	}
	err := r.tx.Commit()
	r.tx = nil
	r.pending = 0
	return err
}

// OnFrame stores f and commits when a batch is full.
func (r *Recorder) OnFrame(f *dynamo.Frame) error {
	if r.tx == nil {
		return fmt.Errorf("storage: recorder %s is closed", r.meta.ID)
	}
	row, err := encodeFrame(f)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Step, err)
	}
	if _, err := r.tx.Stmt(r.insert).Exec(f.Step, row.x, row.v, row.m, row.color, row.xPre, f.Lock); err != nil {
		return fmt.Errorf("insert frame %d: %w", f.Step, err)
	}
	r.pending++
	r.meta.Frames = f.Step + 1

	if r.saveEvery > 0 && r.pending >= r.saveEvery {
		if err := r.commit(); err != nil {
			return fmt.Errorf("autosave at frame %d: %w", f.Step, err)
		}
		r.logger.Debug("autosaved", "step", f.Step)
		return r.begin()
	}
	return nil
}

// Close commits outstanding frames, closes the database and rewrites the
// metadata with the result summary. res may be nil for an aborted run.
func (r *Recorder) Close(res *dynamo.Result) error {
	if r.db == nil {
		return nil
	}
	commitErr := r.commit()
	r.insert.Close()
	closeErr := r.db.Close()
	r.db = nil

	if res != nil {
		r.meta.Finish(res)
	} else {
		r.meta.Stop = "aborted"
	}
	metaErr := r.store.writeMetadata(&r.meta)

	r.logger.Info("saved", "frames", r.meta.Frames, "stop", r.meta.Stop)
	for _, err := range []error{commitErr, closeErr, metaErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

type frameRow struct {
	x, v, m, color, xPre string
}

func encodeFrame(f *dynamo.Frame) (frameRow, error) {
	var row frameRow
	var err error
	if row.x, err = marshal(points(f.Post)); err != nil {
		return row, err
	}
	if row.v, err = marshal(points(f.Vel)); err != nil {
		return row, err
	}
	if row.m, err = marshal(f.Mass); err != nil {
		return row, err
	}
	if row.color, err = marshal(rgba(f.Color)); err != nil {
		return row, err
	}
	if row.xPre, err = marshal(points(f.Pre)); err != nil {
		return row, err
	}
	return row, nil
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
