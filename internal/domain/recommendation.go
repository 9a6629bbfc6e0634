package domain

import "time"

// CourseRecommendation es un curso con su grado de afinidad (0-100).
type CourseRecommendation struct {
	Course     Course  `json:"course"`
	MatchScore float64 `json:"match_score"`
}

// CandidateCounts reporta cuantos candidatos quedaron antes de truncar.
type CandidateCounts struct {
	Colleges     int `json:"colleges"`
	Courses      int `json:"courses"`
	Scholarships int `json:"scholarships"`
}

// RecommendationResult es la salida del motor para un assessment completo.
type RecommendationResult struct {
	Stream       string                 `json:"stream"`
	StreamScores map[string]float64     `json:"stream_scores"`
	Scores       map[string]float64     `json:"scores"`
	Preferences  map[string]any         `json:"preferences"`
	AcademicTier string                 `json:"academic_tier,omitempty"`
	Colleges     []College              `json:"colleges"`
	Courses      []CourseRecommendation `json:"courses"`
	Scholarships []Scholarship          `json:"scholarships"`
	// TotalCandidatesBeforeTruncation corresponde a la lista de colleges.
	TotalCandidatesBeforeTruncation int             `json:"total_candidates_before_truncation"`
	Totals                          CandidateCounts `json:"totals"`
}

// StoredRecommendation es un resultado persistido para un usuario.
type StoredRecommendation struct {
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	Stream       string               `json:"stream"`
	StreamVector []float32            `json:"stream_vector"`
	Result       RecommendationResult `json:"result"`
	Model        string               `json:"model"`
	CreatedAt    time.Time            `json:"created_at"`
}
