package models

// QuestionKind distinguishes the two trivia question shapes.
type QuestionKind string

const (
	KindBoolean  QuestionKind = "boolean"
	KindMultiple QuestionKind = "multiple"
)

// Question is one trivia item. Created once when a session starts and
// immutable afterwards.
type Question struct {
	// Index is the question's 0-based position within its session.
	Index int
	Kind  QuestionKind
	// Prompt is the localized question text.
	Prompt string

	// Options holds the four localized answers for multiple-choice
	// questions, shuffled once at creation. Empty for boolean questions.
	Options []string
	// CorrectIndex points into Options after the shuffle.
	CorrectIndex int

	// CorrectBool is the answer for boolean questions.
	CorrectBool bool
}

// CorrectText returns the display text of the correct answer.
func (q *Question) CorrectText() string {
	if q.Kind == KindBoolean {
		if q.CorrectBool {
			return "True"
		}
		return "False"
	}
	if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
		return q.Options[q.CorrectIndex]
	}
	return "Unknown"
}

// IsCorrect grades a submitted option index. For boolean questions the
// convention is index 1 = true, 0 = false.
func (q *Question) IsCorrect(answerIndex int) bool {
	if q.Kind == KindBoolean {
		return (answerIndex == 1) == q.CorrectBool
	}
	return answerIndex == q.CorrectIndex
}
