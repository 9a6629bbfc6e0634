package recommend

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"edupath/internal/domain"
)

// Claves de preferencia reconocidas por los filtros.
const (
	PrefLocation            = "location"
	PrefCity                = "city"
	PrefBudget              = "budget"
	PrefTypePreference      = "type_preference"
	PrefScholarshipPriority = "scholarship_priority"
)

// Preferences guarda los tags categoricos registrados por las respuestas.
type Preferences map[string]any

// String devuelve el valor como texto si es un string no vacio.
func (p Preferences) String(key string) (string, bool) {
	s, ok := p[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Number acepta numeros y strings numericos.
func (p Preferences) Number(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil
	}
	return 0, false
}

// Aggregation es el resultado de convertir un AnswerSet en scores y preferencias.
type Aggregation struct {
	Scores      map[string]float64
	Preferences Preferences
	Diagnostics []Diagnostic
}

// Aggregate suma los ScoreDeltas de cada opcion seleccionada y registra sus
// PreferenceTags (last-write-wins en orden del banco). Las respuestas a preguntas
// inactivas no contribuyen.
func Aggregate(bank domain.QuestionBank, answers domain.AnswerSet) (Aggregation, error) {
	if err := checkConsistency(bank, answers); err != nil {
		return Aggregation{}, err
	}

	agg := Aggregation{
		Scores:      make(map[string]float64),
		Preferences: make(Preferences),
	}
	for _, q := range bank.Active(answers) {
		answer := answers.Get(q.ID)
		for _, value := range answer.Values() {
			opt, _ := q.Option(value)
			agg.apply(q.ID, opt)
		}
	}
	return agg, nil
}

func (a *Aggregation) apply(questionID string, opt domain.Option) {
	for _, trait := range sortedKeys(opt.ScoreDeltas) {
		delta := opt.ScoreDeltas[trait]
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			a.Diagnostics = append(a.Diagnostics, Diagnostic{
				QuestionID: questionID, OptionValue: opt.Value, Key: trait, Reason: "score is not a finite number",
			})
			continue
		}
		a.Scores[trait] += delta
	}
	for _, key := range sortedKeys(opt.PreferenceTags) {
		val, ok := normalizeTag(opt.PreferenceTags[key])
		if !ok {
			a.Diagnostics = append(a.Diagnostics, Diagnostic{
				QuestionID: questionID, OptionValue: opt.Value, Key: key, Reason: "tag is not a string, bool or number",
			})
			continue
		}
		a.Preferences[key] = val
	}
}

func normalizeTag(v any) (any, bool) {
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case bool:
		return t, true
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return float64(t), true
	}
	return nil, false
}

func checkConsistency(bank domain.QuestionBank, answers domain.AnswerSet) error {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		q, ok := bank.Find(id)
		if !ok {
			return &DataConsistencyError{QuestionID: id}
		}
		if err := checkAnswer(q, answers[id]); err != nil {
			return err
		}
	}
	return nil
}

// CheckAnswer valida una respuesta aislada contra el banco.
func CheckAnswer(bank domain.QuestionBank, questionID string, answer domain.AnswerValue) error {
	q, ok := bank.Find(questionID)
	if !ok {
		return &DataConsistencyError{QuestionID: questionID}
	}
	return checkAnswer(q, answer)
}

// checkAnswer valida que los valores existan entre las opciones de la pregunta.
func checkAnswer(q domain.Question, answer domain.AnswerValue) error {
	values := answer.Values()
	if q.Type == domain.QuestionSingle && len(values) > 1 {
		return &DataConsistencyError{QuestionID: q.ID, Reason: "single choice question has several values"}
	}
	for _, v := range values {
		if _, ok := q.Option(v); !ok {
			return &DataConsistencyError{QuestionID: q.ID, Value: v}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
