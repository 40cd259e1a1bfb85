// Package scanner discovers the JavaScript files a run should analyze:
// recursive directory traversal with include/exclude glob filtering,
// size limits, and symlink handling.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scanner walks the given targets and returns the files eligible for
// analysis.
type Scanner struct {
	maxBytes       int64
	followSymlinks bool
	includeGlobs   []string
	excludeGlobs   []string
	extensions     []string
}

// Config holds scanner configuration options.
type Config struct {
	MaxBytes       int64
	FollowSymlinks bool
	IncludeGlobs   []string
	ExcludeGlobs   []string
	// Extensions restricts matched files by suffix, without the dot
	// ("js", "mjs", "cjs", "jsx"). Empty means no extension filter.
	Extensions []string
}

// New creates a Scanner from cfg.
func New(cfg Config) *Scanner {
	return &Scanner{
		maxBytes:       cfg.MaxBytes,
		followSymlinks: cfg.FollowSymlinks,
		includeGlobs:   cfg.IncludeGlobs,
		excludeGlobs:   cfg.ExcludeGlobs,
		extensions:     cfg.Extensions,
	}
}

// ScanTargets processes a list of file and directory targets, returning
// a deduplicated list of files eligible for analysis.
func (s *Scanner) ScanTargets(ctx context.Context, targets []string) ([]string, error) {
	if len(targets) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		targets = []string{cwd}
	}

	var allFiles []string
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		files, err := s.scanTarget(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("scanning target %s: %w", target, err)
		}
		allFiles = append(allFiles, files...)
	}

	return s.deduplicateFiles(allFiles), nil
}

func (s *Scanner) scanTarget(ctx context.Context, target string) ([]string, error) {
	info, err := os.Lstat(target)
	if err != nil {
		return nil, fmt.Errorf("accessing target %s: %w", target, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !s.followSymlinks {
			return nil, nil
		}
		resolved, err := filepath.EvalSymlinks(target)
		if err != nil {
			return nil, fmt.Errorf("resolving symlink %s: %w", target, err)
		}
		return s.scanTarget(ctx, resolved)
	}

	if info.Mode().IsRegular() {
		if s.shouldProcessFile(target, info) {
			return []string{target}, nil
		}
		return nil, nil
	}

	if info.IsDir() {
		return s.scanDirectory(ctx, target)
	}

	return nil, nil
}

func (s *Scanner) scanDirectory(ctx context.Context, dir string) ([]string, error) {
	var files []string

	err := fs.WalkDir(os.DirFS(dir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fullPath := filepath.Join(dir, path)

		if d.IsDir() {
			if s.shouldSkipDirectory(path) {
				return fs.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("getting file info for %s: %w", fullPath, err)
			}
			if s.shouldProcessFile(fullPath, info) {
				files = append(files, fullPath)
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", dir, err)
	}

	return files, nil
}

// shouldProcessFile determines if a file should be processed, by
// extension, size, and include/exclude glob patterns (matched against
// the file's path with doublestar, so `**/*.test.js` style patterns
// work as exclude filters).
func (s *Scanner) shouldProcessFile(path string, info os.FileInfo) bool {
	if s.maxBytes > 0 && info.Size() > s.maxBytes {
		return false
	}

	if len(s.extensions) > 0 {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if !slices.Contains(s.extensions, ext) {
			return false
		}
	}

	slashPath := filepath.ToSlash(path)
	basename := filepath.Base(path)

	if len(s.includeGlobs) > 0 {
		matched := false
		for _, pattern := range s.includeGlobs {
			if ok, _ := doublestar.Match(pattern, slashPath); ok {
				matched = true
				break
			}
			if ok, _ := doublestar.Match(pattern, basename); ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range s.excludeGlobs {
		if ok, _ := doublestar.Match(pattern, slashPath); ok {
			return false
		}
		if ok, _ := doublestar.Match(pattern, basename); ok {
			return false
		}
	}

	return true
}

// shouldSkipDirectory skips common non-source directories and hidden
// directories outright.
func (s *Scanner) shouldSkipDirectory(path string) bool {
	dirname := filepath.Base(path)

	skipDirs := []string{".git", "vendor", "node_modules", "dist", "build", "coverage"}
	if slices.Contains(skipDirs, dirname) {
		return true
	}

	if strings.HasPrefix(dirname, ".") && dirname != "." {
		return true
	}

	return false
}

func (s *Scanner) deduplicateFiles(files []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, file := range files {
		if !seen[file] {
			seen[file] = true
			result = append(result, file)
		}
	}

	return result
}
