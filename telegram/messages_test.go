package telegram

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/avrudenko/lingvobot/internal/game"
	apperrors "github.com/avrudenko/lingvobot/pkg/errors"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

func TestSortedCategoryIDs(t *testing.T) {
	ids := sortedCategoryIDs()

	if len(ids) != len(CategoryNames) {
		t.Fatalf("got %d ids, want %d", len(ids), len(CategoryNames))
	}
	if ids[0] != 0 {
		t.Errorf("first id = %d, want 0", ids[0])
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not ascending at %d: %v", i, ids)
		}
	}
}

func TestTierMessagesCoverAllTiers(t *testing.T) {
	tiers := []game.Tier{game.TierPerfect, game.TierGreat, game.TierGood, game.TierFair, game.TierPoor}
	if len(tierMessages) != len(tiers) {
		t.Fatalf("got %d tier messages, want %d", len(tierMessages), len(tiers))
	}
	for _, tier := range tiers {
		if tierMessages[int(tier)] == "" {
			t.Errorf("tier %d has no message", tier)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"spanish", "Spanish"},
		{"", ""},
		{"x", "X"},
	}
	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLanguageSetMessage(t *testing.T) {
	msg := languageSetMessage("es")
	if !strings.Contains(msg, "Spanish (es)") {
		t.Errorf("message %q does not name the language", msg)
	}
}

func TestTranslationErrorReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rate limited", statusErr(429), "busy"},
		{"server error", statusErr(503), "too long"},
		{"timeout", context.DeadlineExceeded, "too long"},
		{"client error", statusErr(401), "rejected"},
		{"unknown", fmt.Errorf("boom"), "try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translationErrorReason(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("reason %q does not mention %q", got, tt.want)
			}
		})
	}
}

func TestUserFacingGameError(t *testing.T) {
	err := fmt.Errorf("start game: %w",
		apperrors.New(apperrors.ErrCodeNotFound, "no questions found for this category, try a different one"))

	if got := userFacingGameError(err); !strings.Contains(got, "no questions found") {
		t.Errorf("got %q, want the structured reason", got)
	}

	if got := userFacingGameError(fmt.Errorf("opaque")); !strings.Contains(got, "попробуйте позже") {
		t.Errorf("got %q, want the generic fallback", got)
	}
}
