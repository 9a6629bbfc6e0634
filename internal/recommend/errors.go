package recommend

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyStreamTable = errors.New("stream table is empty")
	ErrUnanswered       = errors.New("current question is unanswered")
	ErrAtFirstQuestion  = errors.New("already at first question")
	ErrQuizCompleted    = errors.New("quiz already completed")
	ErrInactiveQuestion = errors.New("question is not active")
)

// DataConsistencyError indica que una respuesta no corresponde al banco de preguntas.
// Rechaza el scoring completo.
type DataConsistencyError struct {
	QuestionID string
	Value      string
	Reason     string
}

func (e *DataConsistencyError) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("answer for question %q: %s", e.QuestionID, e.Reason)
	case e.Value != "":
		return fmt.Sprintf("question %q has no option %q", e.QuestionID, e.Value)
	default:
		return fmt.Sprintf("unknown question %q", e.QuestionID)
	}
}

// IncompleteError lista las preguntas activas sin respuesta.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return "assessment incomplete: missing " + strings.Join(e.Missing, ", ")
}

// Diagnostic reporta una entrada de opcion malformada que se omitio.
type Diagnostic struct {
	QuestionID  string `json:"question_id"`
	OptionValue string `json:"option_value"`
	Key         string `json:"key"`
	Reason      string `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s/%s: %s (%s)", d.QuestionID, d.OptionValue, d.Key, d.Reason)
}
