package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code and message",
			err:  New(CodeTurnUnknownActor, "no such actor"),
			want: "TURN_UNKNOWN_ACTOR: no such actor",
		},
		{
			name: "code only",
			err:  &Error{Code: CodeNotFound},
			want: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{
			name: "domain error",
			err:  New(CodeDiceInvalidNotation, "bad notation"),
			want: CodeDiceInvalidNotation,
		},
		{
			name: "wrapped domain error",
			err:  fmt.Errorf("submit action: %w", New(CodeTurnStandardConflict, "standard slot taken")),
			want: CodeTurnStandardConflict,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: CodeUnknown,
		},
		{
			name: "nil error",
			err:  nil,
			want: CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := Newf(CodeTurnMoveConflict, "actor %s has no move slots left", "Brennan")
	if !IsCode(err, CodeTurnMoveConflict) {
		t.Error("IsCode() = false, want true")
	}
	if IsCode(err, CodeTurnSwiftConflict) {
		t.Error("IsCode() matched wrong code")
	}
}

func TestGetMetadata(t *testing.T) {
	err := WithMetadata(CodeTurnUnknownActor, "no such actor", map[string]string{"Actor": "Ghost"})
	meta := GetMetadata(err)
	if meta == nil {
		t.Fatal("GetMetadata() = nil, want map")
	}
	if meta["Actor"] != "Ghost" {
		t.Errorf("metadata Actor = %q, want %q", meta["Actor"], "Ghost")
	}

	if GetMetadata(errors.New("plain")) != nil {
		t.Error("GetMetadata() on plain error should be nil")
	}
}
