package media

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is one stored recording blob, addressable both on disk and over
// the public media route.
type Artifact struct {
	Path string
	URL  string
	Size int64
}

// Store keeps recording artifacts on the local filesystem, one file per
// (session, question) pair.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, baseURL string) (*Store, error) {
	if dir == "" {
		dir = "artifacts"
	}
	if baseURL == "" {
		baseURL = "/media"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	return &Store{dir: dir, baseURL: baseURL}, nil
}

func (s *Store) Dir() string { return s.dir }

// Save writes the blob and returns its addressable artifact. An empty blob is
// rejected so callers never end up with a zero-byte file on disk.
func (s *Store) Save(sessionID string, questionNumber int, data []byte) (Artifact, error) {
	if len(data) == 0 {
		return Artifact{}, fmt.Errorf("empty recording blob")
	}

	name := fmt.Sprintf("%s_q%d.webm", sessionID, questionNumber)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write artifact %s: %w", path, err)
	}

	return Artifact{
		Path: path,
		URL:  s.baseURL + "/" + name,
		Size: int64(len(data)),
	}, nil
}
