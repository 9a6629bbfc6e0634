package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionCategory agrupa preguntas del assessment.
type QuestionCategory string

const (
	CategoryAcademic   QuestionCategory = "academic"
	CategoryInterest   QuestionCategory = "interest"
	CategoryCareer     QuestionCategory = "career"
	CategoryFuture     QuestionCategory = "future"
	CategoryLocation   QuestionCategory = "location"
	CategoryFinancial  QuestionCategory = "financial"
	CategoryPreference QuestionCategory = "preference"
)

// QuestionType indica si la pregunta acepta una o varias opciones.
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

// Condition activa una pregunta solo cuando una respuesta previa coincide.
type Condition struct {
	QuestionID string `json:"question_id" validate:"required"`
	Equals     string `json:"equals" validate:"required"`
}

// Question es una pregunta del banco; inmutable una vez cargada.
type Question struct {
	ID        string           `json:"id" validate:"required"`
	Category  QuestionCategory `json:"category" validate:"required,oneof=academic interest career future location financial preference"`
	Prompt    string           `json:"prompt" validate:"required"`
	Type      QuestionType     `json:"type" validate:"required,oneof=single multiple"`
	Options   []Option         `json:"options" validate:"required,min=1,dive"`
	DependsOn *Condition       `json:"depends_on,omitempty" validate:"omitempty"`
	Position  int              `json:"position"`
}

// Option busca una opcion por valor.
func (q Question) Option(value string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Option es una respuesta posible. ScoreDeltas se suman por trait;
// PreferenceTags se registran tal cual (last-write-wins).
type Option struct {
	Value          string             `json:"value" validate:"required"`
	Label          string             `json:"label" validate:"required"`
	ScoreDeltas    map[string]float64 `json:"scores,omitempty"`
	PreferenceTags map[string]any     `json:"tags,omitempty"`
}

// UnmarshalJSON acepta tambien el formato legacy "deltas", que mezcla scores y tags.
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value  string             `json:"value"`
		Label  string             `json:"label"`
		Scores map[string]float64 `json:"scores"`
		Tags   map[string]any     `json:"tags"`
		Deltas map[string]any     `json:"deltas"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Value = raw.Value
	o.Label = raw.Label
	o.ScoreDeltas = raw.Scores
	o.PreferenceTags = raw.Tags
	for key, val := range raw.Deltas {
		if n, ok := val.(float64); ok {
			if o.ScoreDeltas == nil {
				o.ScoreDeltas = make(map[string]float64)
			}
			o.ScoreDeltas[key] = n
			continue
		}
		if o.PreferenceTags == nil {
			o.PreferenceTags = make(map[string]any)
		}
		o.PreferenceTags[key] = val
	}
	return nil
}

// QuestionBank es el snapshot ordenado de preguntas usado para presentar y puntuar.
type QuestionBank []Question

// Find devuelve la pregunta con ese id.
func (b QuestionBank) Find(id string) (Question, bool) {
	for _, q := range b {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Active filtra las preguntas condicionales cuyo predicado no se cumple, en orden del banco.
func (b QuestionBank) Active(answers AnswerSet) []Question {
	active := make([]Question, 0, len(b))
	for _, q := range b {
		if q.DependsOn != nil && !answers.Get(q.DependsOn.QuestionID).Contains(q.DependsOn.Equals) {
			continue
		}
		active = append(active, q)
	}
	return active
}

// AnswerValue es una seleccion simple o un conjunto de valores.
type AnswerValue struct {
	values []string
}

// Single crea una respuesta de opcion unica.
func Single(value string) AnswerValue {
	value = strings.TrimSpace(value)
	if value == "" {
		return AnswerValue{}
	}
	return AnswerValue{values: []string{value}}
}

// Multiple crea una respuesta de opcion multiple; descarta vacios y duplicados.
func Multiple(values ...string) AnswerValue {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return AnswerValue{values: out}
}

// Values devuelve una copia de los valores seleccionados.
func (a AnswerValue) Values() []string {
	return append([]string(nil), a.values...)
}

func (a AnswerValue) IsEmpty() bool {
	return len(a.values) == 0
}

func (a AnswerValue) Contains(value string) bool {
	for _, v := range a.values {
		if v == value {
			return true
		}
	}
	return false
}

// First devuelve el primer valor, util para preguntas de opcion unica.
func (a AnswerValue) First() string {
	if len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if len(a.values) == 1 {
		return json.Marshal(a.values[0])
	}
	if a.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.values)
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = Single(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("answer must be a string or an array of strings: %w", err)
	}
	*a = Multiple(many...)
	return nil
}

// AnswerSet mapea question id a la respuesta. Revisitar una pregunta sobrescribe.
type AnswerSet map[string]AnswerValue

func (s AnswerSet) Get(questionID string) AnswerValue {
	if s == nil {
		return AnswerValue{}
	}
	return s[questionID]
}

// Set registra o sobrescribe; una respuesta vacia elimina la entrada.
func (s AnswerSet) Set(questionID string, value AnswerValue) {
	if value.IsEmpty() {
		delete(s, questionID)
		return
	}
	s[questionID] = value
}

// Clone copia el set para que el llamador no comparta estado.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for k, v := range s {
		out[k] = Multiple(v.values...)
	}
	return out
}
