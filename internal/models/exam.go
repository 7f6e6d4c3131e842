package models

import "time"

type QuestionType string

const (
	QuestionMultiple QuestionType = "multiple"
	QuestionShort    QuestionType = "short"
)

type Question struct {
	Text          string       `json:"text" bson:"text"`
	Type          QuestionType `json:"type" bson:"type"`
	Options       []string     `json:"options,omitempty" bson:"options,omitempty"`
	CorrectAnswer int          `json:"correct_answer" bson:"correctAnswer"`
}

// Exam is the payload carried by an item in the exams section. Exams are
// immutable after creation; the only supported operation is delete.
type Exam struct {
	Title        string     `json:"title" bson:"title"`
	TimerEnabled bool       `json:"timer_enabled" bson:"timerEnabled"`
	TimerMinutes int        `json:"timer_minutes" bson:"timerMinutes"`
	ThemeColor   string     `json:"theme_color" bson:"themeColor"`
	Questions    []Question `json:"questions" bson:"questions"`
	CreatedAt    time.Time  `json:"created_at" bson:"createdAt"`
}
