package journal

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/skirmish-engine/internal/combatant"
	"github.com/louisbranch/skirmish-engine/internal/core/dice"
	apperrors "github.com/louisbranch/skirmish-engine/internal/errors"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
	"github.com/louisbranch/skirmish-engine/internal/turn"
)

func openTempJournal(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "journal.db"), "ambush", 42)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close journal: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("", "ambush", 1); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenRequiresScenario(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "journal.db"), "  ", 1); err == nil {
		t.Fatal("expected empty scenario error")
	}
}

func TestRecordRoundRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempJournal(t)
	results := []turn.ActionResult{
		{
			Kind:     turn.KindAttack,
			Actor:    "alice",
			Target:   "orc",
			Data:     map[string]any{"hit": true, "damage": float64(7)},
			Log:      "alice attacks orc",
			Turn:     1,
			ActionID: 1,
			Debug:    map[string]int{"natural_roll": 14},
		},
		{
			Kind:     turn.KindFree,
			Actor:    "orc",
			Log:      "orc takes a free action",
			Turn:     1,
			ActionID: 2,
		},
	}
	rolls := []dice.Entry{
		{Notation: "1d20", Values: []int{12}, Total: 12},
		{Notation: "1d20", Values: []int{3}, Total: 3},
		{Notation: "1d20", Values: []int{14}, Total: 14},
		{Notation: "1d8", Values: []int{4}, Total: 4},
	}

	before := time.Now().UTC().Add(-time.Second)
	if err := store.RecordRound(context.Background(), 1, results, rolls); err != nil {
		t.Fatalf("record round: %v", err)
	}

	got, err := store.Round(context.Background(), 1)
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if got.Scenario != "ambush" {
		t.Errorf("Scenario = %q, want %q", got.Scenario, "ambush")
	}
	if got.Turn != 1 {
		t.Errorf("Turn = %d, want 1", got.Turn)
	}
	if got.Seed != 42 {
		t.Errorf("Seed = %d, want 42", got.Seed)
	}
	if !reflect.DeepEqual(got.Results, results) {
		t.Errorf("Results = %#v, want %#v", got.Results, results)
	}
	if !reflect.DeepEqual(got.Rolls, rolls) {
		t.Errorf("Rolls = %#v, want %#v", got.Rolls, rolls)
	}
	if got.RecordedAt.Before(before) {
		t.Errorf("RecordedAt = %v, want at or after %v", got.RecordedAt, before)
	}
}

func TestRecordRoundRejectsDuplicateTurn(t *testing.T) {
	t.Parallel()

	store := openTempJournal(t)
	if err := store.RecordRound(context.Background(), 1, nil, nil); err != nil {
		t.Fatalf("record first round: %v", err)
	}

	err := store.RecordRound(context.Background(), 1, nil, nil)
	if !apperrors.IsCode(err, apperrors.CodeTurnAlreadyResolved) {
		t.Fatalf("duplicate record error = %v, want code %s", err, apperrors.CodeTurnAlreadyResolved)
	}
	meta := apperrors.GetMetadata(err)
	if meta["turn"] != "1" {
		t.Errorf("metadata turn = %q, want %q", meta["turn"], "1")
	}
}

func TestRoundNotFound(t *testing.T) {
	t.Parallel()

	store := openTempJournal(t)
	_, err := store.Round(context.Background(), 99)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("missing round error = %v, want code %s", err, apperrors.CodeNotFound)
	}
}

func TestRoundsOrderedByTurn(t *testing.T) {
	t.Parallel()

	store := openTempJournal(t)
	for _, turnNumber := range []int{2, 1, 3} {
		if err := store.RecordRound(context.Background(), turnNumber, nil, nil); err != nil {
			t.Fatalf("record turn %d: %v", turnNumber, err)
		}
	}

	records, err := store.Rounds(context.Background())
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	for i, record := range records {
		if record.Turn != i+1 {
			t.Errorf("records[%d].Turn = %d, want %d", i, record.Turn, i+1)
		}
		if len(record.Results) != 0 {
			t.Errorf("records[%d].Results = %v, want empty", i, record.Results)
		}
		if len(record.Rolls) != 0 {
			t.Errorf("records[%d].Rolls = %v, want empty", i, record.Rolls)
		}
	}
}

func TestJournalRecordsManagerRounds(t *testing.T) {
	t.Parallel()

	store := openTempJournal(t)
	rules, err := ruleset.Default()
	if err != nil {
		t.Fatalf("load ruleset: %v", err)
	}

	alice := combatant.New("alice")
	orc := combatant.New("orc")

	manager, err := turn.NewManager(turn.ManagerConfig{
		Seed:       42,
		Rules:      rules,
		Combatants: []*combatant.Sheet{alice, orc},
		Sink:       store,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	intent := turn.Intent{
		Actor:  "alice",
		Type:   "attack",
		Params: map[string]any{"target": "orc"},
	}
	if err := manager.Submit(intent); err != nil {
		t.Fatalf("submit attack: %v", err)
	}
	if _, err := manager.Resolve(context.Background()); err != nil {
		t.Fatalf("resolve round: %v", err)
	}

	record, err := store.Round(context.Background(), 1)
	if err != nil {
		t.Fatalf("read journaled round: %v", err)
	}
	if len(record.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(record.Results))
	}
	if record.Results[0].Kind != turn.KindAttack {
		t.Errorf("Results[0].Kind = %q, want %q", record.Results[0].Kind, turn.KindAttack)
	}
	if record.Results[0].Actor != "alice" {
		t.Errorf("Results[0].Actor = %q, want %q", record.Results[0].Actor, "alice")
	}
	if len(record.Rolls) < 2 {
		t.Fatalf("len(Rolls) = %d, want at least the initiative rolls", len(record.Rolls))
	}
	if record.Rolls[0].Notation != "1d20" {
		t.Errorf("Rolls[0].Notation = %q, want %q", record.Rolls[0].Notation, "1d20")
	}
}

func TestJournalRejectsReplayedSession(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")

	store, err := Open(path, "ambush", 7)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if err := store.RecordRound(context.Background(), 1, nil, nil); err != nil {
		t.Fatalf("record round: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	reopened, err := Open(path, "ambush", 7)
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}
	defer reopened.Close()

	err = reopened.RecordRound(context.Background(), 1, nil, nil)
	if !apperrors.IsCode(err, apperrors.CodeTurnAlreadyResolved) {
		t.Fatalf("replayed record error = %v, want code %s", err, apperrors.CodeTurnAlreadyResolved)
	}

	records, err := reopened.Rounds(context.Background())
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(records))
	}
}
