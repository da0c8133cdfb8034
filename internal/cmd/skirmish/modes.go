package skirmish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/skirmish-engine/internal/core/dice"
	"github.com/louisbranch/skirmish-engine/internal/journal"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
	"github.com/louisbranch/skirmish-engine/internal/scenario"
)

// runScenario loads and resolves one scenario file. The seed is fixed
// before the journal opens so every recorded round carries the value
// the dice actually used.
func runScenario(ctx context.Context, cfg Config, rules *ruleset.Ruleset, logger *log.Logger, out io.Writer, path, journalPath string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = sc.Seed
	}
	if seed == 0 {
		seed, err = dice.NewSeed()
		if err != nil {
			return fmt.Errorf("draw seed: %w", err)
		}
	}

	runCfg := scenario.Config{
		Rules:   rules,
		Seed:    seed,
		Logger:  logger,
		Verbose: cfg.Verbose,
	}
	if journalPath != "" {
		store, err := journal.Open(journalPath, sc.Name, seed)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		runCfg.Sink = store
	}

	runner, err := scenario.NewRunner(runCfg)
	if err != nil {
		return err
	}
	report, err := runner.Run(ctx, sc)
	if err != nil {
		return err
	}
	printReport(out, report)
	return nil
}

// runDir resolves every *.lua file in cfg.Dir concurrently, one
// manager per scenario. Output is buffered per scenario and flushed in
// file order so concurrent runs never interleave lines.
func runDir(ctx context.Context, cfg Config, rules *ruleset.Ruleset, logger *log.Logger, out io.Writer) error {
	paths, err := filepath.Glob(filepath.Join(cfg.Dir, "*.lua"))
	if err != nil {
		return fmt.Errorf("scan %s: %w", cfg.Dir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no scenario files in %s", cfg.Dir)
	}
	if cfg.Journal != "" {
		if err := os.MkdirAll(cfg.Journal, 0o755); err != nil {
			return fmt.Errorf("create journal directory: %w", err)
		}
	}

	outputs := make([]bytes.Buffer, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		group.Go(func() error {
			journalPath := ""
			if cfg.Journal != "" {
				base := strings.TrimSuffix(filepath.Base(path), ".lua")
				journalPath = filepath.Join(cfg.Journal, base+".db")
			}
			if err := runScenario(groupCtx, cfg, rules, logger, &outputs[i], path, journalPath); err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			return nil
		})
	}
	err = group.Wait()
	for i := range outputs {
		if _, writeErr := out.Write(outputs[i].Bytes()); writeErr != nil {
			return fmt.Errorf("write output: %w", writeErr)
		}
	}
	return err
}

// runDump prints every round a journal holds and exits.
func runDump(ctx context.Context, cfg Config, out io.Writer) error {
	records, err := journal.ReadAll(ctx, cfg.Dump)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "journal is empty")
		return nil
	}
	for _, record := range records {
		fmt.Fprintf(out, "%s turn %d (seed %d, recorded %s)\n",
			record.Scenario, record.Turn, record.Seed,
			record.RecordedAt.Format(time.RFC3339))
		for _, result := range record.Results {
			fmt.Fprintf(out, "  %s\n", result.Log)
		}
		if cfg.Verbose {
			for _, roll := range record.Rolls {
				fmt.Fprintf(out, "  roll %s = %v total %d\n", roll.Notation, roll.Values, roll.Total)
			}
		} else {
			fmt.Fprintf(out, "  %d rolls\n", len(record.Rolls))
		}
	}
	return nil
}

func printReport(out io.Writer, report scenario.Report) {
	fmt.Fprintf(out, "%s (seed %d)\n", report.Name, report.Seed)
	for i, round := range report.Rounds {
		fmt.Fprintf(out, "round %d\n", i+1)
		for _, result := range round {
			fmt.Fprintf(out, "  %s\n", result.Log)
		}
	}
	fmt.Fprintf(out, "%d rounds, %d dice rolls\n", len(report.Rounds), report.DiceConsumed)
}
