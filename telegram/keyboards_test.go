package telegram

import (
	"strings"
	"testing"

	"github.com/avrudenko/lingvobot/internal/models"
)

func TestLanguageKeyboard(t *testing.T) {
	kb := LanguageKeyboard()

	if len(kb.InlineKeyboard) != 6 {
		t.Fatalf("got %d rows, want 6 (12 languages, 2 per row)", len(kb.InlineKeyboard))
	}

	total := 0
	for _, row := range kb.InlineKeyboard {
		if len(row) > 2 {
			t.Errorf("row has %d buttons, want at most 2", len(row))
		}
		for _, btn := range row {
			if !strings.HasPrefix(*btn.CallbackData, "lang_") {
				t.Errorf("callback %q missing lang_ prefix", *btn.CallbackData)
			}
			total++
		}
	}
	if total != 12 {
		t.Errorf("got %d buttons, want 12", total)
	}
}

func TestCategoryKeyboard(t *testing.T) {
	kb := CategoryKeyboard()

	if len(kb.InlineKeyboard) != len(CategoryNames) {
		t.Fatalf("got %d rows, want one per category (%d)", len(kb.InlineKeyboard), len(CategoryNames))
	}

	first := kb.InlineKeyboard[0][0]
	if first.Text != "Все категории" || *first.CallbackData != "trivia_category_0" {
		t.Errorf("first row = %q/%q, want the no-filter option first", first.Text, *first.CallbackData)
	}

	last := kb.InlineKeyboard[len(kb.InlineKeyboard)-1][0]
	if *last.CallbackData != "trivia_category_32" {
		t.Errorf("last row callback = %q, want trivia_category_32", *last.CallbackData)
	}
}

func TestAnswerKeyboard_Boolean(t *testing.T) {
	q := &models.Question{Index: 3, Kind: models.KindBoolean, CorrectBool: true}
	kb := AnswerKeyboard(q)

	if len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 2 {
		t.Fatalf("boolean keyboard shape = %v, want one row of two", kb.InlineKeyboard)
	}

	trueBtn := kb.InlineKeyboard[0][0]
	falseBtn := kb.InlineKeyboard[0][1]
	if *trueBtn.CallbackData != "trivia_answer_3_1" {
		t.Errorf("true callback = %q, want trivia_answer_3_1", *trueBtn.CallbackData)
	}
	if *falseBtn.CallbackData != "trivia_answer_3_0" {
		t.Errorf("false callback = %q, want trivia_answer_3_0", *falseBtn.CallbackData)
	}
}

func TestAnswerKeyboard_Multiple(t *testing.T) {
	q := &models.Question{
		Index:   5,
		Kind:    models.KindMultiple,
		Options: []string{"один", "два", "три", "четыре"},
	}
	kb := AnswerKeyboard(q)

	if len(kb.InlineKeyboard) != 2 {
		t.Fatalf("got %d rows, want 2", len(kb.InlineKeyboard))
	}

	btn := kb.InlineKeyboard[0][1]
	if !strings.HasPrefix(btn.Text, "B. ") {
		t.Errorf("second button text = %q, want B. prefix", btn.Text)
	}
	if *btn.CallbackData != "trivia_answer_5_1" {
		t.Errorf("second button callback = %q, want trivia_answer_5_1", *btn.CallbackData)
	}
}

func TestAnswerKeyboard_TruncatesLongOptions(t *testing.T) {
	long := strings.Repeat("я", 80)
	q := &models.Question{
		Index:   0,
		Kind:    models.KindMultiple,
		Options: []string{long, "б", "в", "г"},
	}
	kb := AnswerKeyboard(q)

	text := kb.InlineKeyboard[0][0].Text
	if runes := []rune(text); len(runes) != answerButtonMaxLen {
		t.Errorf("truncated text is %d runes, want %d", len(runes), answerButtonMaxLen)
	}
	if !strings.HasSuffix(text, "...") {
		t.Errorf("truncated text %q missing ellipsis", text)
	}
}
