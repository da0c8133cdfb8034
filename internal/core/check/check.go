// Package check provides the difficulty-comparison primitives shared by
// attack, maneuver, and skill resolution.
package check

// Meets returns true if total >= difficulty. Ties go to the roller.
func Meets(total, difficulty int) bool {
	return total >= difficulty
}

// Margin calculates the margin of success or failure.
// Positive or zero values indicate success, negative indicate failure.
func Margin(total, difficulty int) int {
	return total - difficulty
}

// Result represents the outcome of a difficulty check.
type Result struct {
	Success bool `json:"success"`
	Margin  int  `json:"margin"`
}

// Against performs a difficulty check and returns the result.
func Against(total, difficulty int) Result {
	return Result{
		Success: Meets(total, difficulty),
		Margin:  Margin(total, difficulty),
	}
}

// Opposed resolves an opposed comparison such as a combat maneuver,
// where an attacker value is set against a defender value with no dice.
func Opposed(attacker, defender int) Result {
	return Against(attacker, defender)
}
