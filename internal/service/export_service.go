package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"qbank/internal/model"
)

// ExportFormat selects an export serializer
type ExportFormat string

const (
	FormatQTI  ExportFormat = "qti"
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportService serializes a finalized record set. Exporters only consume
// the merged records; they never change them.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// ContentType returns the MIME type for a format
func (s *ExportService) ContentType(format ExportFormat) string {
	switch format {
	case FormatQTI:
		return "application/xml"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/json"
	}
}

// Export serializes questions in the requested format
func (s *ExportService) Export(questions []model.Question, metadata map[string]interface{}, format ExportFormat) ([]byte, error) {
	switch format {
	case FormatQTI:
		return s.exportQTI(questions)
	case FormatCSV:
		return s.exportCSV(questions)
	case FormatJSON:
		return s.exportJSON(questions, metadata)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// exportJSON writes the canonical {questions, metadata} payload shape, so
// an export can be re-uploaded as-is
func (s *ExportService) exportJSON(questions []model.Question, metadata map[string]interface{}) ([]byte, error) {
	payload := struct {
		Questions []model.RawQuestion    `json:"questions"`
		Metadata  map[string]interface{} `json:"metadata"`
	}{
		Questions: make([]model.RawQuestion, len(questions)),
		Metadata:  metadata,
	}
	if payload.Metadata == nil {
		payload.Metadata = map[string]interface{}{}
	}
	for i, q := range questions {
		payload.Questions[i] = q.Payload()
	}
	return json.MarshalIndent(payload, "", "  ")
}

var csvHeader = []string{
	"id", "type", "title", "question_text",
	"choice_a", "choice_b", "choice_c", "choice_d",
	"correct_answer", "points", "tolerance",
	"topic", "subtopic", "difficulty",
	"feedback_correct", "feedback_incorrect",
}

func (s *ExportService) exportCSV(questions []model.Question) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, q := range questions {
		row := []string{
			q.ID, string(q.Type), q.Title, q.QuestionText,
			q.Choices[0], q.Choices[1], q.Choices[2], q.Choices[3],
			q.CorrectAnswer,
			strconv.FormatFloat(q.Points, 'f', -1, 64),
			strconv.FormatFloat(q.Tolerance, 'f', -1, 64),
			q.Topic, q.Subtopic, string(q.Difficulty),
			q.FeedbackCorrect, q.FeedbackIncorrect,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// QTI 1.2 document structure, reduced to what quiz importers actually read

type qtiDocument struct {
	XMLName    xml.Name      `xml:"questestinterop"`
	Assessment qtiAssessment `xml:"assessment"`
}

type qtiAssessment struct {
	Ident string    `xml:"ident,attr"`
	Title string    `xml:"title,attr"`
	Items []qtiItem `xml:"section>item"`
}

type qtiItem struct {
	Ident        string          `xml:"ident,attr"`
	Title        string          `xml:"title,attr"`
	Presentation qtiPresentation `xml:"presentation"`
	Responses    *qtiRespCond    `xml:"resprocessing"`
}

type qtiPresentation struct {
	Material qtiMaterial `xml:"material"`
	Choices  []qtiChoice `xml:"response_lid>render_choice>response_label"`
}

type qtiMaterial struct {
	Text string `xml:"mattext"`
}

type qtiChoice struct {
	Ident string      `xml:"ident,attr"`
	Text  qtiMaterial `xml:"material"`
}

type qtiRespCond struct {
	Correct string `xml:"respcondition>conditionvar>varequal"`
}

func (s *ExportService) exportQTI(questions []model.Question) ([]byte, error) {
	doc := qtiDocument{
		Assessment: qtiAssessment{
			Ident: "qbank-" + uuid.New().String(),
			Title: "Question Bank Export",
			Items: make([]qtiItem, 0, len(questions)),
		},
	}
	for _, q := range questions {
		item := qtiItem{
			Ident: q.ID,
			Title: q.Title,
			Presentation: qtiPresentation{
				Material: qtiMaterial{Text: q.QuestionText},
			},
			Responses: &qtiRespCond{Correct: q.CorrectAnswer},
		}
		if item.Ident == "" {
			item.Ident = uuid.New().String()
		}
		if q.Type == model.QuestionTypeMultipleChoice {
			for i, c := range q.Choices {
				item.Presentation.Choices = append(item.Presentation.Choices, qtiChoice{
					Ident: model.ChoiceLetters[i],
					Text:  qtiMaterial{Text: c},
				})
			}
		}
		doc.Assessment.Items = append(doc.Assessment.Items, item)
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
