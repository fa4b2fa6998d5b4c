// Package fs implements the artifact store on the local filesystem.
// Artifacts live under <root>/candidates/<candidate-id>/<name> and are
// overwritten in place, so pipeline replays stay idempotent.
package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
)

// Store persists candidate artifacts under a root directory.
type Store struct {
	root string
}

// New constructs a Store rooted at dir, creating the candidates
// directory if needed.
func New(dir string) (*Store, error) {
	s := &Store{root: dir}
	if err := os.MkdirAll(filepath.Join(dir, "candidates"), 0o750); err != nil {
		return nil, fmt.Errorf("op=storage.init: %w", err)
	}
	return s, nil
}

func (s *Store) candidateDir(candidateID string) (string, error) {
	dir := filepath.Join(s.root, "candidates", candidateID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("op=storage.dir: %w", err)
	}
	return dir, nil
}

// PutResume stores the original document bytes and returns the path.
func (s *Store) PutResume(_ domain.Context, candidateID string, data []byte) (string, error) {
	dir, err := s.candidateDir(candidateID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("op=storage.put_resume: %w", err)
	}
	return path, nil
}

// ResumePath returns where the original document lives for a candidate.
func (s *Store) ResumePath(candidateID string) string {
	return filepath.Join(s.root, "candidates", candidateID, "resume.pdf")
}

// PutText writes a text artifact, overwriting any previous content.
func (s *Store) PutText(_ domain.Context, candidateID, name, content string) (string, error) {
	dir, err := s.candidateDir(candidateID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o640); err != nil {
		return "", fmt.Errorf("op=storage.put_text: %w", err)
	}
	return path, nil
}

// PutJSON writes an indented JSON artifact, overwriting any previous content.
func (s *Store) PutJSON(ctx domain.Context, candidateID, name string, v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("op=storage.put_json: %w", err)
	}
	return s.PutText(ctx, candidateID, name, string(b))
}

// ReadText reads a text artifact back; missing files are an error.
func (s *Store) ReadText(_ domain.Context, candidateID, name string) (string, error) {
	path := filepath.Join(s.root, "candidates", candidateID, name)
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("op=storage.read_text: %w", err)
	}
	return string(b), nil
}
