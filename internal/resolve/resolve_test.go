package resolve

import (
	"testing"

	"github.com/louisbranch/skirmish-engine/internal/combatant"
	"github.com/louisbranch/skirmish-engine/internal/core/dice"
	"github.com/louisbranch/skirmish-engine/internal/ruleset"
)

func testContext(t *testing.T, seed int64) *Context {
	t.Helper()
	rules, err := ruleset.Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	return &Context{Dice: dice.NewRoller(seed), Rules: rules}
}

// testFighter has STR 16 (+3), DEX 14 (+2), and BAB 2.
func testFighter(name string) *combatant.Sheet {
	s := combatant.New(name)
	s.Abilities[combatant.STR] = 16
	s.Abilities[combatant.DEX] = 14
	s.BAB = 2
	return s
}

// seedWithFirstD20 scans seeds until the first d20 drawn satisfies the
// predicate. The scan bound is generous enough that failure means the
// roller itself is broken.
func seedWithFirstD20(t *testing.T, want func(int) bool) int64 {
	t.Helper()
	for seed := int64(1); seed <= 10000; seed++ {
		if want(dice.NewRoller(seed).D20()) {
			return seed
		}
	}
	t.Fatal("no seed found with required first d20")
	return 0
}
