package recommend

import (
	"edupath/internal/domain"
)

// Limits son los tamanos maximos de cada lista.
type Limits struct {
	Colleges     int
	Courses      int
	Scholarships int
}

var DefaultLimits = Limits{Colleges: 5, Courses: 4, Scholarships: 3}

const DefaultAcademicQuestionID = "academic_1"

// Engine es el pipeline puro de scoring y recomendacion. Es seguro para uso concurrente.
type Engine struct {
	streams            StreamTable
	academicQuestionID string
	limits             Limits
}

type EngineOption func(*Engine)

// WithAcademicQuestion cambia la pregunta de la que se deriva el tier academico.
func WithAcademicQuestion(id string) EngineOption {
	return func(e *Engine) {
		if id != "" {
			e.academicQuestionID = id
		}
	}
}

func WithLimits(l Limits) EngineOption {
	return func(e *Engine) {
		e.limits = l
	}
}

func NewEngine(streams StreamTable, opts ...EngineOption) (*Engine, error) {
	if err := streams.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		streams:            streams,
		academicQuestionID: DefaultAcademicQuestionID,
		limits:             DefaultLimits,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Engine) Streams() StreamTable {
	return e.streams
}

// Input es todo lo que necesita una recomendacion.
type Input struct {
	Bank      domain.QuestionBank
	Answers   domain.AnswerSet
	Inventory domain.Inventory
	// RequireComplete rechaza el scoring si falta alguna pregunta activa.
	RequireComplete bool
}

type Output struct {
	Result      domain.RecommendationResult
	Diagnostics []Diagnostic
}

// Validate verifica que toda pregunta activa tenga respuesta.
func (e *Engine) Validate(bank domain.QuestionBank, answers domain.AnswerSet) error {
	var missing []string
	for _, q := range bank.Active(answers) {
		if answers.Get(q.ID).IsEmpty() {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	return nil
}

// Tier deriva el tier academico de la respuesta correspondiente.
func (e *Engine) Tier(answers domain.AnswerSet) AcademicTier {
	return ParseAcademicTier(answers.Get(e.academicQuestionID).First())
}

// Recommend corre agregacion, clasificacion, filtrado y ranking.
func (e *Engine) Recommend(in Input) (Output, error) {
	agg, err := Aggregate(in.Bank, in.Answers)
	if err != nil {
		return Output{}, err
	}
	if in.RequireComplete {
		if err := e.Validate(in.Bank, in.Answers); err != nil {
			return Output{}, err
		}
	}

	class := e.streams.Classify(agg.Scores)
	stream, _ := e.streams.Lookup(class.Stream)
	tier := e.Tier(in.Answers)
	criteria := CriteriaFrom(stream, agg.Preferences, tier)

	colleges := filterAndRank(in.Inventory.Colleges, collegeKind, criteria, e.limits.Colleges)

	courseRecs := make([]domain.CourseRecommendation, len(in.Inventory.Courses))
	for i, c := range in.Inventory.Courses {
		courseRecs[i] = domain.CourseRecommendation{Course: c, MatchScore: MatchScore(c.Traits, agg.Scores)}
	}
	courses := filterAndRank(courseRecs, courseKind, criteria, e.limits.Courses)
	scholarships := filterAndRank(in.Inventory.Scholarships, scholarshipKind, criteria, e.limits.Scholarships)

	result := domain.RecommendationResult{
		Stream:                          class.Stream,
		StreamScores:                    class.StreamScores,
		Scores:                          agg.Scores,
		Preferences:                     agg.Preferences,
		AcademicTier:                    string(tier),
		Colleges:                        colleges.Items,
		Courses:                         courses.Items,
		Scholarships:                    scholarships.Items,
		TotalCandidatesBeforeTruncation: colleges.Total,
		Totals: domain.CandidateCounts{
			Colleges:     colleges.Total,
			Courses:      courses.Total,
			Scholarships: scholarships.Total,
		},
	}
	return Output{Result: result, Diagnostics: agg.Diagnostics}, nil
}
