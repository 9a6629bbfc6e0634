package recommend

import (
	"edupath/internal/domain"
)

// QuizSnapshot es el estado serializable de un quiz en progreso.
type QuizSnapshot struct {
	Index     int              `json:"index"`
	Answers   domain.AnswerSet `json:"answers"`
	Completed bool             `json:"completed"`
}

// Quiz avanza pregunta por pregunta sobre las preguntas activas del banco.
// No es seguro para uso concurrente; el estado pertenece al llamador.
type Quiz struct {
	bank      domain.QuestionBank
	index     int
	answers   domain.AnswerSet
	completed bool

	// OnComplete se invoca una sola vez al completar el quiz.
	OnComplete func(domain.AnswerSet)
}

func NewQuiz(bank domain.QuestionBank) *Quiz {
	return &Quiz{bank: bank, answers: make(domain.AnswerSet)}
}

// RestoreQuiz reconstruye un quiz desde un snapshot, validando las respuestas.
func RestoreQuiz(bank domain.QuestionBank, snap QuizSnapshot) (*Quiz, error) {
	q := NewQuiz(bank)
	if snap.Answers != nil {
		if err := checkConsistency(bank, snap.Answers); err != nil {
			return nil, err
		}
		q.answers = snap.Answers.Clone()
	}
	q.index = snap.Index
	q.completed = snap.Completed
	q.clamp()
	return q, nil
}

func (q *Quiz) Snapshot() QuizSnapshot {
	return QuizSnapshot{Index: q.index, Answers: q.answers.Clone(), Completed: q.completed}
}

func (q *Quiz) Active() []domain.Question {
	return q.bank.Active(q.answers)
}

func (q *Quiz) Index() int {
	return q.index
}

func (q *Quiz) Completed() bool {
	return q.completed
}

// Current devuelve la pregunta en curso; ok=false si no hay preguntas activas.
func (q *Quiz) Current() (domain.Question, bool) {
	active := q.Active()
	if q.index < 0 || q.index >= len(active) {
		return domain.Question{}, false
	}
	return active[q.index], true
}

// Answer registra o sobrescribe la respuesta a una pregunta activa.
func (q *Quiz) Answer(questionID string, value domain.AnswerValue) error {
	if q.completed {
		return ErrQuizCompleted
	}
	question, ok := q.bank.Find(questionID)
	if !ok {
		return &DataConsistencyError{QuestionID: questionID}
	}
	if !isActive(q.Active(), questionID) {
		return ErrInactiveQuestion
	}
	if err := checkAnswer(question, value); err != nil {
		return err
	}
	q.answers.Set(questionID, value)
	q.clamp()
	return nil
}

// Next avanza; en la ultima pregunta completa el quiz y devuelve true.
func (q *Quiz) Next() (bool, error) {
	if q.completed {
		return true, ErrQuizCompleted
	}
	current, ok := q.Current()
	if !ok {
		return false, ErrUnanswered
	}
	if q.answers.Get(current.ID).IsEmpty() {
		return false, ErrUnanswered
	}
	if q.index < len(q.Active())-1 {
		q.index++
		return false, nil
	}
	q.completed = true
	if q.OnComplete != nil {
		q.OnComplete(q.Answers())
	}
	return true, nil
}

func (q *Quiz) Previous() error {
	if q.completed {
		return ErrQuizCompleted
	}
	if q.index == 0 {
		return ErrAtFirstQuestion
	}
	q.index--
	return nil
}

func (q *Quiz) Reset() {
	q.index = 0
	q.answers = make(domain.AnswerSet)
	q.completed = false
}

// Answers devuelve solo las respuestas de preguntas activas.
func (q *Quiz) Answers() domain.AnswerSet {
	out := make(domain.AnswerSet)
	for _, question := range q.Active() {
		if v := q.answers.Get(question.ID); !v.IsEmpty() {
			out[question.ID] = v
		}
	}
	return out.Clone()
}

// clamp mantiene el indice dentro de la lista activa cuando esta se achica.
func (q *Quiz) clamp() {
	n := len(q.Active())
	if q.index >= n {
		q.index = n - 1
	}
	if q.index < 0 {
		q.index = 0
	}
}

func isActive(active []domain.Question, id string) bool {
	for _, q := range active {
		if q.ID == id {
			return true
		}
	}
	return false
}
