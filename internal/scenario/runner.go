package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/louisbranch/skirmish-engine/internal/core/dice"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
	"github.com/louisbranch/skirmish-engine/internal/turn"
)

// Config controls scenario execution.
type Config struct {
	// Rules is the loaded ruleset; nil falls back to the embedded
	// default.
	Rules *ruleset.Ruleset
	// Seed overrides the script seed when nonzero. When both are zero
	// the runner draws a fresh random seed.
	Seed int64
	// Sink, when set, receives every resolved round.
	Sink turn.RoundSink
	// Logger receives progress output in verbose mode; nil logs to
	// stderr.
	Logger  *log.Logger
	Verbose bool
}

// Report is the outcome of one executed scenario: the seed the rounds
// ran under and every stamped result in resolution order.
type Report struct {
	Name         string
	Seed         int64
	Rounds       [][]turn.ActionResult
	DiceConsumed int
}

// Runner executes compiled scenarios through a turn manager.
type Runner struct {
	rules   *ruleset.Ruleset
	sink    turn.RoundSink
	logger  *log.Logger
	verbose bool
	seed    int64
}

// NewRunner prepares a scenario runner.
func NewRunner(cfg Config) (*Runner, error) {
	rules := cfg.Rules
	if rules == nil {
		var err error
		rules, err = ruleset.Default()
		if err != nil {
			return nil, fmt.Errorf("load default ruleset: %w", err)
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	return &Runner{
		rules:   rules,
		sink:    cfg.Sink,
		logger:  logger,
		verbose: cfg.Verbose,
		seed:    cfg.Seed,
	}, nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) (Report, error) {
	runner, err := NewRunner(cfg)
	if err != nil {
		return Report{}, err
	}
	sc, err := Load(path)
	if err != nil {
		return Report{}, err
	}
	return runner.Run(ctx, sc)
}

// Run executes the scenario rounds in script order. Intents submit
// verbatim except that attacks with no weapon parameter pick up the
// actor's equipped weapon. Submission and resolution failures abort
// the scenario with the partial report.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (Report, error) {
	if sc == nil {
		return Report{}, errors.New("scenario is required")
	}

	seed := r.seed
	if seed == 0 {
		seed = sc.Seed
	}
	if seed == 0 {
		fresh, err := dice.NewSeed()
		if err != nil {
			return Report{}, fmt.Errorf("draw seed: %w", err)
		}
		seed = fresh
	}

	battleMap, err := buildMap(sc.Map)
	if err != nil {
		return Report{}, err
	}
	sheets, err := buildSheets(sc.Actors, r.rules)
	if err != nil {
		return Report{}, err
	}

	manager, err := turn.NewManager(turn.ManagerConfig{
		Seed:       seed,
		Rules:      r.rules,
		Map:        battleMap,
		Combatants: sheets,
		Sink:       r.sink,
	})
	if err != nil {
		return Report{}, err
	}

	report := Report{Name: sc.Name, Seed: seed}
	r.logf("scenario start: %s (%d actors, %d rounds, seed %d)", sc.Name, len(sc.Actors), len(sc.Rounds), seed)

	for index, round := range sc.Rounds {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for _, intent := range round.Intents {
			intent = r.equipIntent(manager, intent)
			if err := manager.Submit(intent); err != nil {
				return report, fmt.Errorf("round %d: submit %s for %s: %w", index+1, intent.Type, intent.Actor, err)
			}
		}
		results, err := manager.Resolve(ctx)
		if err != nil {
			return report, fmt.Errorf("round %d: %w", index+1, err)
		}
		for _, result := range results {
			r.logf("  %s", result.Log)
		}
		report.Rounds = append(report.Rounds, results)
	}

	report.DiceConsumed = manager.Dice().Len()
	r.logf("scenario done: %s (%d dice consumed)", sc.Name, report.DiceConsumed)
	return report, nil
}

// equipIntent fills the weapon parameter of an attack from the actor's
// equipped weapon. An explicit weapon key, even an empty one, wins.
func (r *Runner) equipIntent(manager *turn.Manager, intent turn.Intent) turn.Intent {
	if intent.Type != string(turn.KindAttack) {
		return intent
	}
	if _, ok := intent.Params["weapon"]; ok {
		return intent
	}
	sheet, err := manager.Combatant(intent.Actor)
	if err != nil || sheet.Weapon == "" {
		return intent
	}

	params := make(map[string]any, len(intent.Params)+1)
	for key, value := range intent.Params {
		params[key] = value
	}
	params["weapon"] = sheet.Weapon
	intent.Params = params
	return intent
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
