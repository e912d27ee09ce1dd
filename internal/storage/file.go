package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const filePrefix = "snapshots_"

// FileStorage appends snapshots to JSONL files, starting a new file every
// rotation interval.
type FileStorage struct {
	outputDir        string
	rotationInterval time.Duration
	now              func() time.Time

	mu           sync.Mutex
	currentFile  *os.File
	currentPath  string
	lastRotation time.Time
	written      int64
}

// NewFileStorage creates a new file storage. A zero interval never rotates.
func NewFileStorage(outputDir string, rotationInterval time.Duration) (*FileStorage, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	s := &FileStorage{
		outputDir:        outputDir,
		rotationInterval: rotationInterval,
		now:              time.Now,
	}
	if err := s.rotate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Write appends a snapshot as one line.
func (s *FileStorage) Write(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentFile == nil {
		return fmt.Errorf("writing snapshot: storage closed")
	}
	if s.rotationInterval > 0 && s.now().Sub(s.lastRotation) >= s.rotationInterval {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	data = append(data, '\n')
	if _, err := s.currentFile.Write(data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	s.written++
	return nil
}

// Close closes the current file.
func (s *FileStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentFile == nil {
		return nil
	}
	err := s.currentFile.Close()
	s.currentFile = nil
	return err
}

func (s *FileStorage) rotate() error {
	if s.currentFile != nil {
		if err := s.currentFile.Close(); err != nil {
			return fmt.Errorf("closing output file: %w", err)
		}
	}

	now := s.now().UTC()
	path := filepath.Join(s.outputDir, filePrefix+now.Format("2006-01-02_15-04-05.000")+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	s.currentFile = f
	s.currentPath = path
	s.lastRotation = now
	return nil
}

// CurrentPath returns the path of the file being written.
func (s *FileStorage) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPath
}

// Written returns the number of snapshots written since creation.
func (s *FileStorage) Written() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// ReadFile loads every snapshot of a JSONL file.
func ReadFile(path string) ([]*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshots: %w", err)
	}
	defer f.Close()

	var out []*Snapshot
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1<<20), 64<<20)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(sc.Bytes(), &snap); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, &snap)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}
	return out, nil
}
