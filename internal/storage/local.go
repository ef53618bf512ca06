package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// LocalStorage writes storyboard artifacts under a base output directory.
// Each run gets its own session subdirectory.
type LocalStorage struct {
	outputDir string
}

func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{outputDir: outputDir}
}

func (s *LocalStorage) EnsureDirectories() error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (s *LocalStorage) OutputDir() string {
	return s.outputDir
}

// SaveFrameImage writes a rendered frame image into dir, naming it from the
// frame number and the leading words of its description.
func (s *LocalStorage) SaveFrameImage(dir string, frameNumber int, description string, data []byte) (string, error) {
	slug := SanitizeForPath(description)
	if len(slug) > 30 {
		slug = slug[:30]
	}
	if slug == "" {
		slug = "frame"
	}

	path := filepath.Join(dir, fmt.Sprintf("frame_%02d_%s.png", frameNumber, slug))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write frame image: %w", err)
	}

	return path, nil
}

func (s *LocalStorage) SaveText(dir, name, content string) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

func SanitizeForPath(s string) string {
	s = strings.ToLower(s)
	s = sanitizeRegex.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
