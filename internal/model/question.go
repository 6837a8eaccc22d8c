package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeNumerical      QuestionType = "numerical"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeFillInBlank    QuestionType = "fill_in_blank"
)

// KnownType reports whether t is one of the supported question types
func KnownType(t QuestionType) bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeNumerical, QuestionTypeTrueFalse, QuestionTypeFillInBlank:
		return true
	}
	return false
}

// Difficulty levels for classification metadata
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ChoiceCount is the fixed number of choices on a multiple-choice question
const ChoiceCount = 4

// Defaults applied during normalization
const (
	DefaultPoints    = 1.0
	DefaultTolerance = 0.05
	DefaultTopic     = "General"
)

// ChoiceLetters maps a choice slot to its answer letter
var ChoiceLetters = [ChoiceCount]string{"A", "B", "C", "D"}

// RawQuestion is a question record exactly as uploaded, before normalization
type RawQuestion map[string]interface{}

// Question is a canonical question record. Downstream components only ever
// see records in this shape, after normalization has applied all defaults.
type Question struct {
	ID                string              `json:"id" bson:"id"`
	Type              QuestionType        `json:"type" bson:"type"`
	Title             string              `json:"title" bson:"title"`
	QuestionText      string              `json:"question_text" bson:"questionText"`
	Choices           [ChoiceCount]string `json:"choices" bson:"choices"`
	CorrectAnswer     string              `json:"correct_answer" bson:"correctAnswer"`
	Points            float64             `json:"points" bson:"points"`
	Tolerance         float64             `json:"tolerance" bson:"tolerance"`
	Topic             string              `json:"topic" bson:"topic"`
	Subtopic          string              `json:"subtopic" bson:"subtopic"`
	Difficulty        Difficulty          `json:"difficulty" bson:"difficulty"`
	FeedbackCorrect   string              `json:"feedback_correct" bson:"feedbackCorrect"`
	FeedbackIncorrect string              `json:"feedback_incorrect" bson:"feedbackIncorrect"`

	// Source is the raw record the question was normalized from. Renumbering
	// rewrites id-like keys here so legacy-shaped consumers stay consistent.
	Source RawQuestion `json:"source,omitempty" bson:"source,omitempty"`
}

// IDAliases are the raw-record keys a question id may be read from or
// written to, in resolution order
var IDAliases = []string{"id", "question_id", "Id", "ID", "QuestionId", "Question_Id"}

// Payload returns the question in the canonical upload wire shape,
// without the retained raw source
func (q Question) Payload() RawQuestion {
	return RawQuestion{
		"id":                 q.ID,
		"type":               string(q.Type),
		"title":              q.Title,
		"question_text":      q.QuestionText,
		"choices":            q.Choices[:],
		"correct_answer":     q.CorrectAnswer,
		"points":             q.Points,
		"tolerance":          q.Tolerance,
		"topic":              q.Topic,
		"subtopic":           q.Subtopic,
		"difficulty":         string(q.Difficulty),
		"feedback_correct":   q.FeedbackCorrect,
		"feedback_incorrect": q.FeedbackIncorrect,
	}
}

// TextField is one named free-text field of a question
type TextField struct {
	Name string
	Text string
}

// TextFields returns the free-text fields scanned for LaTeX delimiter
// balance, in a stable order
func (q Question) TextFields() []TextField {
	fields := []TextField{
		{"title", q.Title},
		{"question_text", q.QuestionText},
	}
	if q.Type == QuestionTypeMultipleChoice {
		for i, c := range q.Choices {
			fields = append(fields, TextField{"choices[" + ChoiceLetters[i] + "]", c})
		}
	}
	fields = append(fields,
		TextField{"feedback_correct", q.FeedbackCorrect},
		TextField{"feedback_incorrect", q.FeedbackIncorrect},
	)
	return fields
}
