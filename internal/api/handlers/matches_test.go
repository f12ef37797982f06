package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/playmatatu/lastone/internal/game"
)

func TestParseNamesAcceptsBothForms(t *testing.T) {
	text, err := parseNames(json.RawMessage(`"Ann*2\nBen"`), 10)
	if err != nil || len(text) != 3 || text[1] != "Ann" || text[2] != "Ben" {
		t.Errorf("shorthand = %v, %v", text, err)
	}

	list, err := parseNames(json.RawMessage(`[" Ann ", "", "Ann*2"]`), 10)
	if err != nil || len(list) != 2 || list[0] != "Ann" || list[1] != "Ann*2" {
		t.Errorf("list = %q, %v", list, err)
	}

	if _, err := parseNames(json.RawMessage(`["a","b","c"]`), 2); !errors.Is(err, game.ErrTooManyParticipants) {
		t.Errorf("list over limit: %v", err)
	}
	if _, err := parseNames(json.RawMessage(`{"a":1}`), 2); err == nil {
		t.Error("object accepted as names")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{game.ErrMatchNotFound, http.StatusNotFound},
		{fmt.Errorf("start match x: %w", game.ErrMatchInProgress), http.StatusConflict},
		{fmt.Errorf("start match x: %w", game.ErrLayoutExhausted), http.StatusUnprocessableEntity},
		{game.ErrUnknownMap, http.StatusBadRequest},
		{game.ErrNotEnoughParticipants, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
