// Command jslint is the CLI front-end for the engine: it wires
// internal/scanner (file discovery), internal/config (rule/globals
// surface), internal/engine (parse + Rule Runtime dispatch) and
// internal/store (run history) behind a cobra command tree.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jslint.dev/engine/internal/config"
	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/engine"
	"jslint.dev/engine/internal/errs"
	"jslint.dev/engine/internal/rule"
	"jslint.dev/engine/internal/scanner"
	"jslint.dev/engine/internal/store"
	"jslint.dev/engine/rules/builtin"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jslint [flags] <path>...",
		Short: "Lint JavaScript files with the code-path/scope-aware rule engine",
		Long:  "jslint parses JavaScript with Tree-sitter and runs configurable rules over it, using control-flow and scope analysis the way a real linter's Code-Path Analyzer and Scope Manager do.",
	}
	root.AddCommand(newLintCmd(), newHistoryCmd())
	return root
}

func newLintCmd() *cobra.Command {
	var (
		configPath     string
		jsonOutput     bool
		workers        int
		timeoutMS      int
		maxBytes       int64
		includeGlobs   []string
		excludeGlobs   []string
		followSymlinks bool
		storeDSN       string
		storeDebug     bool
	)

	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Analyze one or more files/directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = config.LoadDotEnv("")

			reg := rule.NewRegistry()
			if err := builtin.Register(reg); err != nil {
				return fmt.Errorf("registering builtin rules: %w", err)
			}

			cfg, err := loadConfig(configPath, reg)
			if err != nil {
				return err
			}

			targets := args
			if len(targets) == 0 {
				targets = []string{"."}
			}
			sc := scanner.New(scanner.Config{
				MaxBytes:       maxBytes,
				FollowSymlinks: followSymlinks,
				IncludeGlobs:   includeGlobs,
				ExcludeGlobs:   excludeGlobs,
				Extensions:     []string{"js", "mjs", "cjs", "jsx"},
			})
			files, err := sc.ScanTargets(cmd.Context(), targets)
			if err != nil {
				return fmt.Errorf("scanning targets: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no JavaScript files found under %v", targets)
			}

			eng := engine.New(reg)
			rt, err := eng.NewRuntime(cfg)
			if err != nil {
				return fmt.Errorf("building rule runtime: %w", err)
			}

			opts := runOptions{
				workers:    workers,
				timeout:    time.Duration(timeoutMS) * time.Millisecond,
				storeDSN:   storeDSN,
				storeDebug: storeDebug,
			}
			report, err := runFiles(cmd.Context(), eng, rt, cfg, files, opts)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(report)
			}
			printHuman(report)
			if report.Violations > 0 {
				return errs.New(errs.RuleInternal, fmt.Sprintf("%d violation(s) found", report.Violations))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a .jslintrc.json config file (defaults to every registered rule at error severity)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "output results as JSON instead of human-readable text")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of concurrent file workers, 0 means use all CPUs")
	cmd.Flags().IntVar(&timeoutMS, "timeout", 5000, "per-file analysis timeout in milliseconds, 0 disables it")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 5*1024*1024, "skip files larger than this many bytes")
	cmd.Flags().StringSliceVar(&includeGlobs, "include", nil, "include file glob patterns")
	cmd.Flags().StringSliceVar(&excludeGlobs, "exclude", nil, "exclude file glob patterns")
	cmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "follow symbolic links while scanning directories")
	cmd.Flags().StringVar(&storeDSN, "store", "", "sqlite file path or libsql URL to record this run's history to; empty disables recording")
	cmd.Flags().BoolVar(&storeDebug, "store-debug", false, "log store queries")

	return cmd
}

func printHuman(report *runReport) {
	for _, res := range report.Results {
		switch res.Kind {
		case diagnostic.ResultOK:
			if len(res.Violations) == 0 {
				fmt.Printf("✓ %s\n", res.File)
				continue
			}
			for _, v := range res.Violations {
				fmt.Printf("%s:%d:%d: %s [%s] (%s)\n", res.File, v.Range.StartLine, v.Range.StartCol, v.Message, v.Rule, v.Severity)
			}
		default:
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", res.File, res.Error)
		}
	}
	fmt.Printf("\n%d file(s), %d violation(s)\n", len(report.Results), report.Violations)
}

func printJSON(report *runReport) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report.Results)
}

func newHistoryCmd() *cobra.Command {
	var (
		storeDSN string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent recorded lint runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if storeDSN == "" {
				return fmt.Errorf("--store is required")
			}
			s, err := store.Connect(storeDSN, false)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.RunHistory(limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				status := "running"
				if r.EndedAt != nil {
					status = r.EndedAt.Format(time.RFC3339)
				}
				fmt.Printf("%s  started=%s  ended=%s  files=%d  violations=%d\n",
					r.ID, r.StartedAt.Format(time.RFC3339), status, r.FilesCount, r.Violations)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&storeDSN, "store", "", "sqlite file path or libsql URL to read history from")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")
	return cmd
}
