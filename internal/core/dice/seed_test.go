package dice

import "testing"

func TestNewSeed(t *testing.T) {
	first, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed() error = %v", err)
	}
	second, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed() error = %v", err)
	}
	if first == second {
		t.Errorf("NewSeed() returned the same value twice: %d", first)
	}
}
