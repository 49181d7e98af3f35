package scan

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"strings"

	"dropstage/internal/domain"
	"dropstage/internal/eventbus"
)

// Directories never descended into during a scan
var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// Service finds regular files under a directory so a whole folder can be
// staged in one action
type Service struct {
	bus      eventbus.EventBus
	maxDepth int
}

// NewService creates a new scan service
func NewService(bus eventbus.EventBus) *Service {
	return &Service{
		bus:      bus,
		maxDepth: 5,
	}
}

// Run walks root and returns every regular file found, in walk order.
// Hidden files, hidden directories and well-known dependency directories
// are skipped. Walk errors on individual entries are logged and skipped
// rather than aborting the scan.
func (s *Service) Run(ctx context.Context, root string) ([]domain.SelectedFile, error) {
	if s.bus != nil {
		s.bus.Publish(eventbus.ScanStartedEvent{Root: root})
	}

	var found []domain.SelectedFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			log.Printf("Error walking path %s: %v", path, err)
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && (skippedDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			if depth(root, path) > s.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.Printf("Error reading info for %s: %v", path, err)
			return nil
		}

		found = append(found, domain.SelectedFile{
			Name: name,
			Size: info.Size(),
			Path: path,
		})
		return nil
	})

	if s.bus != nil {
		s.bus.Publish(eventbus.ScanCompletedEvent{Root: root, FilesFound: len(found)})
	}

	if err != nil {
		return found, err
	}
	return found, nil
}

// depth returns how many levels below root the path sits
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}
