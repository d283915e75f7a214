// Package fs finds video files on the local filesystem.
package fs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bnema/random-video-picker/internal/domain"
	"github.com/bnema/random-video-picker/internal/ports"
)

type Scanner struct {
	extensions map[string]struct{}
	exclude    []string
}

var _ ports.Scanner = (*Scanner)(nil)

// NewScanner builds a scanner. Exclude entries are gitignore-style globs
// matched against slash-separated paths relative to the scan root; a pattern
// without a slash matches at any depth.
func NewScanner(extensions []string, exclude []string) *Scanner {
	if len(extensions) == 0 {
		extensions = domain.DefaultVideoExtensions
	}

	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}

	patterns := make([]string, 0, len(exclude))
	for _, pattern := range exclude {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		pattern = strings.TrimSuffix(pattern, "/")
		if strings.HasPrefix(pattern, "/") {
			pattern = strings.TrimPrefix(pattern, "/")
		} else if !strings.Contains(pattern, "/") {
			pattern = "**/" + pattern
		}
		patterns = append(patterns, pattern)
	}

	return &Scanner{extensions: set, exclude: patterns}
}

// Scan lists video files under root, sorted. Without recursive only the
// direct children of root are considered.
func (s *Scanner) Scan(ctx context.Context, root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidRoot, "scan", root, err)
	}
	if !info.IsDir() {
		return nil, domain.NewError(domain.KindInvalidRoot, "scan", root, domain.ErrNotADirectory)
	}

	// WalkDir does not follow a symlinked root. Walk the target but report
	// paths under root as given so ledger entries stay stable.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, domain.NewError(domain.KindInvalidRoot, "scan", root, err)
	}

	files := []string{}
	walkErr := filepath.WalkDir(walkRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == walkRoot {
			return nil
		}

		relPath, relErr := filepath.Rel(walkRoot, path)
		if relErr != nil {
			return relErr
		}
		rel := filepath.ToSlash(relPath)

		if entry.IsDir() {
			if !recursive || s.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !entry.Type().IsRegular() && !isSymlinkToFile(path, entry) {
			return nil
		}
		if !s.hasVideoExtension(path) || s.excluded(rel) {
			return nil
		}

		files = append(files, filepath.Join(root, relPath))
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, domain.NewError(domain.KindScanFailed, "scan", root, walkErr)
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) hasVideoExtension(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return false
	}
	_, ok := s.extensions[ext]
	return ok
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func isSymlinkToFile(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
