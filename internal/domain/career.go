package domain

import "time"

// CareerPath describe salidas laborales de un grado.
type CareerPath struct {
	ID            string   `json:"id" validate:"required"`
	Title         string   `json:"title" validate:"required"`
	Stream        string   `json:"stream" validate:"required"`
	Degree        string   `json:"degree" validate:"required"`
	Description   string   `json:"description"`
	Jobs          []string `json:"jobs"`
	SalaryRange   string   `json:"salary_range"`
	Skills        []string `json:"skills"`
	HigherStudies []string `json:"higher_studies,omitempty"`
}

// TimelineEvent es una fecha relevante (admisiones, examenes, becas).
type TimelineEvent struct {
	ID          string    `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Category    string    `json:"category" validate:"required,oneof=admission exam scholarship counselling"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtefield=StartsAt"`
	Link        string    `json:"link,omitempty" validate:"omitempty,url"`
}

// CareerAnalysis es la respuesta estructurada del advisor para un grado.
type CareerAnalysis struct {
	JobProspects        []string `json:"job_prospects"`
	SalaryRange         string   `json:"salary_range"`
	GrowthOpportunities []string `json:"growth_opportunities"`
	RequiredSkills      []string `json:"required_skills"`
	IndustryTrends      []string `json:"industry_trends"`
}

// Advice es el consejo personalizado del dashboard.
type Advice struct {
	Summary   string   `json:"summary"`
	NextSteps []string `json:"next_steps"`
	Tips      []string `json:"tips"`
}
