package models

import "testing"

func TestIsCorrect_Boolean(t *testing.T) {
	tests := []struct {
		name        string
		correctBool bool
		answerIndex int
		want        bool
	}{
		{"true answered true", true, 1, true},
		{"true answered false", true, 0, false},
		{"false answered false", false, 0, true},
		{"false answered true", false, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{Kind: KindBoolean, CorrectBool: tt.correctBool}
			if got := q.IsCorrect(tt.answerIndex); got != tt.want {
				t.Errorf("IsCorrect(%d) = %v, want %v", tt.answerIndex, got, tt.want)
			}
		})
	}
}

func TestIsCorrect_Multiple(t *testing.T) {
	q := Question{
		Kind:         KindMultiple,
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: 2,
	}

	if !q.IsCorrect(2) {
		t.Error("correct index graded wrong")
	}
	if q.IsCorrect(0) {
		t.Error("wrong index graded correct")
	}
}

func TestCorrectText(t *testing.T) {
	boolTrue := Question{Kind: KindBoolean, CorrectBool: true}
	if got := boolTrue.CorrectText(); got != "True" {
		t.Errorf("CorrectText() = %q, want True", got)
	}

	multi := Question{Kind: KindMultiple, Options: []string{"a", "b"}, CorrectIndex: 1}
	if got := multi.CorrectText(); got != "b" {
		t.Errorf("CorrectText() = %q, want b", got)
	}

	broken := Question{Kind: KindMultiple, Options: []string{"a"}, CorrectIndex: 5}
	if got := broken.CorrectText(); got != "Unknown" {
		t.Errorf("CorrectText() = %q, want Unknown for out-of-range index", got)
	}
}

func TestGameSession_FinishedAndPercentage(t *testing.T) {
	s := NewGameSession(1, 9, "История", "ru", []Question{
		{Kind: KindBoolean}, {Kind: KindBoolean}, {Kind: KindBoolean}, {Kind: KindBoolean},
	})

	if s.Finished() {
		t.Error("fresh session reported finished")
	}

	s.CurrentIndex = 4
	s.Score = 3
	if !s.Finished() {
		t.Error("session with all questions answered not finished")
	}
	if got := s.Percentage(); got != 75 {
		t.Errorf("Percentage() = %v, want 75", got)
	}

	empty := &GameSession{}
	if got := empty.Percentage(); got != 0 {
		t.Errorf("empty session Percentage() = %v, want 0", got)
	}
}
