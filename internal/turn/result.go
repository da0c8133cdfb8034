package turn

// ActionResult is the immutable audit record of one executed action.
// Data holds the kind-specific outcome; Debug, when present, exposes
// the resolver's intermediate arithmetic. Records are never edited in
// place: stamping produces a copy.
type ActionResult struct {
	Kind     Kind           `json:"kind"`
	Actor    string         `json:"actor"`
	Target   string         `json:"target,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Log      string         `json:"log"`
	Turn     int            `json:"turn"`
	ActionID int            `json:"action_id"`
	Debug    map[string]int `json:"debug,omitempty"`
}

// Stamped returns a copy of the result with the turn number and the
// globally monotonic action id filled in.
func (r ActionResult) Stamped(turn, actionID int) ActionResult {
	r.Turn = turn
	r.ActionID = actionID
	return r
}
