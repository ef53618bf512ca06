package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"storyframe/internal/storage"
)

type session struct {
	id      string
	dir     string
	baseDir string
}

func newSession(baseDir string) *session {
	return &session{
		id:      time.Now().Format("20060102_150405"),
		baseDir: baseDir,
	}
}

func (s *session) finalize(prompt string) error {
	sanitized := storage.SanitizeForPath(prompt)
	if sanitized == "" {
		sanitized = "storyboard"
	}
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}

	s.dir = filepath.Join(s.baseDir, fmt.Sprintf("%s_%s", s.id, sanitized))
	return os.MkdirAll(s.dir, 0755)
}

func (s *session) overviewPath() string { return filepath.Join(s.dir, "storyboard.html") }
