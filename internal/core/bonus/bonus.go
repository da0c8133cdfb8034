// Package bonus computes effective totals from typed bonuses and penalties
// under an externally supplied stacking-rule table.
package bonus

// Mode determines how same-typed entries combine.
type Mode string

const (
	// Stacking entries of the same type are summed unconditionally.
	Stacking Mode = "stacking"
	// NonStacking entries of the same type collapse to the best single
	// value per sign: the highest bonus and the worst penalty.
	NonStacking Mode = "non_stacking"
)

// Rules maps a bonus type to its stacking mode. Types absent from the
// table are treated as non-stacking.
type Rules map[string]Mode

// Entry is one typed bonus (positive) or penalty (negative).
type Entry struct {
	Value int
	Type  string
}

// Result is a stacked total with the per-type contribution that survived
// collapsing, kept for audit output.
type Result struct {
	Total         int
	Contributions map[string]int
}

// Stack computes the effective total for a list of typed entries.
// Stacking types sum every entry. Non-stacking types contribute at most
// one bonus (the maximum) and at most one penalty (the most negative).
func Stack(entries []Entry, rules Rules) Result {
	contributions := make(map[string]int, len(entries))

	type collapsed struct {
		best  int
		worst int
	}
	nonStacking := make(map[string]*collapsed)

	for _, entry := range entries {
		if rules[entry.Type] == Stacking {
			contributions[entry.Type] += entry.Value
			continue
		}

		c, ok := nonStacking[entry.Type]
		if !ok {
			c = &collapsed{}
			nonStacking[entry.Type] = c
		}
		if entry.Value > c.best {
			c.best = entry.Value
		}
		if entry.Value < c.worst {
			c.worst = entry.Value
		}
	}

	for typ, c := range nonStacking {
		contributions[typ] = c.best + c.worst
	}

	total := 0
	for _, value := range contributions {
		total += value
	}
	return Result{Total: total, Contributions: contributions}
}
