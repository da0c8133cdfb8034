package turn

import "sort"

// initiativeEntry is one actor's ordering key for a round: the rolled
// score (d20 + DEX modifier), the DEX modifier and name as tie-breaks,
// and whether the actor's round holds a delayed action.
type initiativeEntry struct {
	actor   string
	score   int
	dexMod  int
	delayed bool
}

// orderInitiative arranges entries into dispatch order: non-delayed
// actors descending by (score, DEX modifier, name), then delayed actors
// ascending by the same key, strictly after every non-delayed actor.
func orderInitiative(entries []initiativeEntry) []initiativeEntry {
	var regular, delayed []initiativeEntry
	for _, e := range entries {
		if e.delayed {
			delayed = append(delayed, e)
		} else {
			regular = append(regular, e)
		}
	}
	sort.Slice(regular, func(i, j int) bool { return initiativeLess(regular[j], regular[i]) })
	sort.Slice(delayed, func(i, j int) bool { return initiativeLess(delayed[i], delayed[j]) })

	ordered := make([]initiativeEntry, 0, len(entries))
	ordered = append(ordered, regular...)
	return append(ordered, delayed...)
}

// initiativeLess is the ascending (score, DEX modifier, name) order.
// Names are unique within a round, so the order is total.
func initiativeLess(a, b initiativeEntry) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	if a.dexMod != b.dexMod {
		return a.dexMod < b.dexMod
	}
	return a.actor < b.actor
}
