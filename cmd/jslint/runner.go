package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jslint.dev/engine/internal/config"
	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/engine"
	"jslint.dev/engine/internal/rule"
	"jslint.dev/engine/internal/store"
)

// runOptions bundles one invocation's tunables, built from cobra flags
// in main.go.
type runOptions struct {
	workers     int
	timeout     time.Duration
	storeDSN    string
	storeDebug  bool
}

// runReport is the aggregate outcome of analyzing a file set: one
// FileResult per file, in input order, plus the total number of
// violations across all files.
type runReport struct {
	Results    []*diagnostic.FileResult
	Violations int
}

// runFiles analyzes every file in files concurrently, using
// golang.org/x/sync/errgroup's bounded SetLimit for the worker pool —
// preserving result order by
// index rather than append-under-mutex.
func runFiles(ctx context.Context, eng *engine.Engine, rt *rule.Runtime, cfg *config.Config, files []string, opts runOptions) (*runReport, error) {
	workers := opts.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([]*diagnostic.FileResult, len(files))
	sources := make([][]byte, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				results[i] = &diagnostic.FileResult{
					File:  path,
					Kind:  diagnostic.ResultParseErr,
					Error: fmt.Sprintf("reading %s: %v", path, err),
				}
				return nil
			}
			sources[i] = source
			results[i] = eng.AnalyzeFile(gctx, path, source, cfg, rt, opts.timeout)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var violations int
	for _, r := range results {
		violations += len(r.Violations)
	}

	if opts.storeDSN != "" {
		if err := recordRun(opts, files, sources, results); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	return &runReport{Results: results, Violations: violations}, nil
}

func recordRun(opts runOptions, files []string, sources [][]byte, results []*diagnostic.FileResult) error {
	s, err := store.Connect(opts.storeDSN, opts.storeDebug)
	if err != nil {
		return fmt.Errorf("connecting to run history store: %w", err)
	}
	defer s.Close()

	runID, err := s.StartRun("")
	if err != nil {
		return fmt.Errorf("starting run record: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var recordErrs []error
	for i, res := range results {
		sha := contentSHA(sources[i])
		wg.Add(1)
		go func(res *diagnostic.FileResult, sha string) {
			defer wg.Done()
			if err := s.RecordFile(runID, sha, res); err != nil {
				mu.Lock()
				recordErrs = append(recordErrs, err)
				mu.Unlock()
			}
		}(res, sha)
	}
	wg.Wait()

	var violations int
	for _, r := range results {
		violations += len(r.Violations)
	}
	if err := s.FinishRun(runID, len(files), violations); err != nil {
		return fmt.Errorf("finishing run record: %w", err)
	}
	if len(recordErrs) > 0 {
		return fmt.Errorf("recording %d file result(s): %w", len(recordErrs), recordErrs[0])
	}
	return nil
}

func contentSHA(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}
