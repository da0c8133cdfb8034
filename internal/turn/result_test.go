package turn

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestActionResultStamped(t *testing.T) {
	original := ActionResult{
		Kind:  KindAttack,
		Actor: "alice",
		Log:   "alice attacks bob (longsword): misses",
	}

	stamped := original.Stamped(3, 17)

	if stamped.Turn != 3 || stamped.ActionID != 17 {
		t.Errorf("stamped = turn %d id %d, want turn 3 id 17", stamped.Turn, stamped.ActionID)
	}
	if original.Turn != 0 || original.ActionID != 0 {
		t.Error("Stamped mutated the original record")
	}
	if stamped.Kind != original.Kind || stamped.Actor != original.Actor || stamped.Log != original.Log {
		t.Error("Stamped altered fields beyond turn and action id")
	}
}

func TestActionResultJSONRoundTrip(t *testing.T) {
	original := ActionResult{
		Kind:   KindAttack,
		Actor:  "alice",
		Target: "bob",
		Data: map[string]any{
			"weapon": "longsword",
			"hit":    true,
			"damage": float64(9),
		},
		Log:      "alice attacks bob (longsword): hits for 9",
		Turn:     2,
		ActionID: 5,
		Debug: map[string]int{
			"natural_roll":      14,
			"effective_bonus":   5,
			"effective_defense": 13,
		},
	}

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded ActionResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if !reflect.DeepEqual(decoded, original) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}
