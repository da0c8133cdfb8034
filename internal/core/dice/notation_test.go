package dice

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		notation string
		want     Spec
		wantErr  error
	}{
		{
			name:     "simple",
			notation: "2d6",
			want:     Spec{Count: 2, Sides: 6},
		},
		{
			name:     "positive modifier",
			notation: "1d20+5",
			want:     Spec{Count: 1, Sides: 20, Modifier: 5},
		},
		{
			name:     "negative modifier",
			notation: "3d8-2",
			want:     Spec{Count: 3, Sides: 8, Modifier: -2},
		},
		{
			name:     "uppercase separator",
			notation: "2D10",
			want:     Spec{Count: 2, Sides: 10},
		},
		{
			name:     "surrounding whitespace",
			notation: "  1d4+1 ",
			want:     Spec{Count: 1, Sides: 4, Modifier: 1},
		},
		{
			name:     "missing separator",
			notation: "26",
			wantErr:  ErrInvalidNotation,
		},
		{
			name:     "missing count",
			notation: "d6",
			wantErr:  ErrInvalidNotation,
		},
		{
			name:     "missing sides",
			notation: "2d",
			wantErr:  ErrInvalidNotation,
		},
		{
			name:     "dangling modifier sign",
			notation: "2d6+",
			wantErr:  ErrInvalidNotation,
		},
		{
			name:     "non-integer count",
			notation: "xd6",
			wantErr:  ErrInvalidNotation,
		},
		{
			name:     "empty",
			notation: "",
			wantErr:  ErrInvalidNotation,
		},
		{
			name:     "zero count",
			notation: "0d6",
			wantErr:  ErrInvalidSpec,
		},
		{
			name:     "zero sides",
			notation: "2d0",
			wantErr:  ErrInvalidSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.notation)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.notation, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.notation, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.notation, got, tt.want)
			}
		})
	}
}

func TestSpecString(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want string
	}{
		{name: "no modifier", spec: Spec{Count: 2, Sides: 6}, want: "2d6"},
		{name: "positive modifier", spec: Spec{Count: 1, Sides: 20, Modifier: 5}, want: "1d20+5"},
		{name: "negative modifier", spec: Spec{Count: 3, Sides: 8, Modifier: -2}, want: "3d8-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpecBounds(t *testing.T) {
	spec := Spec{Count: 2, Sides: 6, Modifier: 3}
	if got := spec.Min(); got != 5 {
		t.Errorf("Min() = %d, want 5", got)
	}
	if got := spec.Max(); got != 15 {
		t.Errorf("Max() = %d, want 15", got)
	}
}
