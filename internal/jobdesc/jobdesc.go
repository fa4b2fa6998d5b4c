// Package jobdesc loads the job description candidates are scored
// against: a file-backed string with an in-code default when the file
// is unreadable.
package jobdesc

import (
	"log/slog"
	"os"
	"strings"
)

// DefaultJobDescription is used when no job description file is readable.
const DefaultJobDescription = `We are looking for a talented software engineer with experience in:
- Python, JavaScript, Go, or similar programming languages
- Web development frameworks
- Database design and management
- API development
- Cloud technologies

The ideal candidate should have strong problem-solving skills,
excellent communication abilities, and a passion for technology.`

// Source reads the job description from a configured path.
type Source struct {
	path string
}

// New constructs a Source for the given file path.
func New(path string) *Source { return &Source{path: path} }

// Load returns the file contents, or the in-code default when the file
// is missing or empty.
func (s *Source) Load() string {
	b, err := os.ReadFile(s.path)
	if err != nil {
		slog.Warn("job description file unreadable, using default", slog.String("path", s.path), slog.Any("error", err))
		return DefaultJobDescription
	}
	if text := strings.TrimSpace(string(b)); text != "" {
		return text
	}
	slog.Warn("job description file empty, using default", slog.String("path", s.path))
	return DefaultJobDescription
}
