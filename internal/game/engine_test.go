package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/avrudenko/lingvobot/internal/models"
	"github.com/avrudenko/lingvobot/internal/store"
)

type fakeSource struct {
	err       error
	questions []models.Question
	lastCount int
	lastCat   int
	lastLang  string
	calls     int
}

func (f *fakeSource) Fetch(_ context.Context, count, categoryID int, languageCode string) ([]models.Question, error) {
	f.calls++
	f.lastCount = count
	f.lastCat = categoryID
	f.lastLang = languageCode
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

func boolQuestions(n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{
			Index:       i,
			Kind:        models.KindBoolean,
			Prompt:      fmt.Sprintf("Q%d", i),
			CorrectBool: i%2 == 0,
		}
	}
	return qs
}

func newEngine(source *fakeSource, n int) (*Engine, store.Sessions, store.Preferences) {
	sessions := store.NewMemorySessions()
	prefs := store.NewMemoryPreferences()
	return NewEngine(sessions, prefs, source, n), sessions, prefs
}

func TestBegin_UsesPreferredLanguage(t *testing.T) {
	source := &fakeSource{questions: boolQuestions(10)}
	engine, _, prefs := newEngine(source, 10)
	prefs.Set(7, "de")

	session, err := engine.Begin(context.Background(), 7, 9, "General")
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if source.lastLang != "de" {
		t.Errorf("fetch language = %q, want de", source.lastLang)
	}
	if source.lastCount != 10 || source.lastCat != 9 {
		t.Errorf("fetch args = (%d, %d), want (10, 9)", source.lastCount, source.lastCat)
	}
	if session.LanguageCode != "de" || session.CategoryName != "General" {
		t.Errorf("session = %+v, want de/General", session)
	}
}

func TestBegin_DefaultsToEnglish(t *testing.T) {
	source := &fakeSource{questions: boolQuestions(10)}
	engine, _, _ := newEngine(source, 10)

	if _, err := engine.Begin(context.Background(), 7, 0, "Все категории"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if source.lastLang != "en" {
		t.Errorf("fetch language = %q, want en", source.lastLang)
	}
}

func TestBegin_ReplacesExistingSession(t *testing.T) {
	source := &fakeSource{questions: boolQuestions(10)}
	engine, sessions, _ := newEngine(source, 10)

	first, err := engine.Begin(context.Background(), 7, 0, "Все категории")
	if err != nil {
		t.Fatalf("first Begin() error = %v", err)
	}
	if _, err := engine.SubmitAnswer(7, 0, 1); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	second, err := engine.Begin(context.Background(), 7, 9, "General")
	if err != nil {
		t.Fatalf("second Begin() error = %v", err)
	}
	if second.ID == first.ID {
		t.Error("second session reused the first session's id")
	}

	got, ok := sessions.Get(7)
	if !ok || got.ID != second.ID || got.CurrentIndex != 0 {
		t.Errorf("stored session = %+v, want fresh second session", got)
	}
}

func TestBegin_FetchFailureLeavesNoSession(t *testing.T) {
	source := &fakeSource{err: errors.New("upstream down")}
	engine, sessions, _ := newEngine(source, 10)

	if _, err := engine.Begin(context.Background(), 7, 0, "Все категории"); err == nil {
		t.Fatal("Begin() expected error, got nil")
	}
	if _, ok := sessions.Get(7); ok {
		t.Error("failed Begin() left a session behind")
	}
}

func TestCurrentQuestion_Idempotent(t *testing.T) {
	source := &fakeSource{questions: boolQuestions(10)}
	engine, _, _ := newEngine(source, 10)

	if _, err := engine.Begin(context.Background(), 7, 0, "Все категории"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		q, err := engine.CurrentQuestion(7)
		if err != nil {
			t.Fatalf("CurrentQuestion() error = %v", err)
		}
		if q.Index != 0 {
			t.Fatalf("CurrentQuestion() index = %d, want 0 on call %d", q.Index, i)
		}
	}
}

func TestCurrentQuestion_NoSession(t *testing.T) {
	engine, _, _ := newEngine(&fakeSource{}, 10)

	if _, err := engine.CurrentQuestion(7); !errors.Is(err, ErrNoSession) {
		t.Errorf("CurrentQuestion() error = %v, want ErrNoSession", err)
	}
}

func TestSubmitAnswer_StaleIndexRejected(t *testing.T) {
	source := &fakeSource{questions: boolQuestions(10)}
	engine, _, _ := newEngine(source, 10)

	if _, err := engine.Begin(context.Background(), 7, 0, "Все категории"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	if _, err := engine.SubmitAnswer(7, 0, 1); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	// Second tap on the same button.
	if _, err := engine.SubmitAnswer(7, 0, 1); !errors.Is(err, ErrStaleAnswer) {
		t.Errorf("duplicate answer error = %v, want ErrStaleAnswer", err)
	}

	// Tap on a question that is not up yet.
	if _, err := engine.SubmitAnswer(7, 5, 1); !errors.Is(err, ErrStaleAnswer) {
		t.Errorf("future answer error = %v, want ErrStaleAnswer", err)
	}

	q, err := engine.CurrentQuestion(7)
	if err != nil || q.Index != 1 {
		t.Errorf("stale answers moved the game: index = %v, err = %v", q, err)
	}
}

func TestSubmitAnswer_NoSession(t *testing.T) {
	engine, _, _ := newEngine(&fakeSource{}, 10)

	if _, err := engine.SubmitAnswer(7, 0, 1); !errors.Is(err, ErrNoSession) {
		t.Errorf("SubmitAnswer() error = %v, want ErrNoSession", err)
	}
}

func TestFullGame_AllCorrect(t *testing.T) {
	source := &fakeSource{questions: boolQuestions(10)}
	engine, sessions, _ := newEngine(source, 10)

	if _, err := engine.Begin(context.Background(), 7, 0, "Все категории"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	var last Result
	for i := 0; i < 10; i++ {
		q, err := engine.CurrentQuestion(7)
		if err != nil {
			t.Fatalf("CurrentQuestion(%d) error = %v", i, err)
		}

		// Boolean answers use index 1 for true, 0 for false.
		answer := 0
		if q.CorrectBool {
			answer = 1
		}

		last, err = engine.SubmitAnswer(7, i, answer)
		if err != nil {
			t.Fatalf("SubmitAnswer(%d) error = %v", i, err)
		}
		if !last.Correct {
			t.Fatalf("question %d graded incorrect", i)
		}
	}

	if !last.Finished {
		t.Fatal("game did not finish after 10 answers")
	}
	if last.Score != 10 || last.Total != 10 || last.Percentage != 100 {
		t.Errorf("final result = %+v, want 10/10 at 100%%", last)
	}
	if last.Tier != TierPerfect {
		t.Errorf("tier = %v, want TierPerfect", last.Tier)
	}
	if _, ok := sessions.Get(7); ok {
		t.Error("finished session was not removed")
	}
	if _, err := engine.CurrentQuestion(7); !errors.Is(err, ErrNoSession) {
		t.Errorf("post-game CurrentQuestion() error = %v, want ErrNoSession", err)
	}
}

func TestTierThresholds(t *testing.T) {
	tests := []struct {
		percentage float64
		want       Tier
	}{
		{100, TierPerfect},
		{90, TierGreat},
		{80, TierGreat},
		{70, TierGood},
		{60, TierGood},
		{50, TierFair},
		{40, TierFair},
		{30, TierPoor},
		{0, TierPoor},
	}

	for _, tt := range tests {
		if got := tierFor(tt.percentage); got != tt.want {
			t.Errorf("tierFor(%.0f) = %v, want %v", tt.percentage, got, tt.want)
		}
	}
}

func TestAbandon(t *testing.T) {
	source := &fakeSource{questions: boolQuestions(10)}
	engine, sessions, _ := newEngine(source, 10)

	if _, err := engine.Begin(context.Background(), 7, 0, "Все категории"); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	engine.Abandon(7)
	if _, ok := sessions.Get(7); ok {
		t.Error("Abandon() left the session in place")
	}
}
