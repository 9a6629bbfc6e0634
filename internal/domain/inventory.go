package domain

// College es un registro del directorio de instituciones.
type College struct {
	ID                   string   `json:"id" validate:"required"`
	Name                 string   `json:"name" validate:"required"`
	State                string   `json:"state"`
	District             string   `json:"district"`
	Type                 string   `json:"type" validate:"omitempty,oneof=Public Private Government Aided"`
	Courses              []string `json:"courses" validate:"required,min=1"`
	AnnualFee            *float64 `json:"annual_fee,omitempty" validate:"omitempty,gte=0"`
	Cutoff               *float64 `json:"cutoff,omitempty" validate:"omitempty,gte=0,lte=100"`
	ScholarshipAvailable bool     `json:"scholarship_available"`
	Facilities           []string `json:"facilities,omitempty"`
	Website              string   `json:"website,omitempty" validate:"omitempty,url"`
}

// Course es un programa de estudio recomendable.
type Course struct {
	ID                   string   `json:"id" validate:"required"`
	Name                 string   `json:"name" validate:"required"`
	Degree               string   `json:"degree" validate:"required"`
	DurationYears        int      `json:"duration_years" validate:"gte=0"`
	Traits               []string `json:"traits"`
	AverageFee           *float64 `json:"average_fee,omitempty" validate:"omitempty,gte=0"`
	MinPercentage        *float64 `json:"min_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	ScholarshipAvailable bool     `json:"scholarship_available"`
	Careers              []string `json:"careers,omitempty"`
}

// Scholarship es una beca con elegibilidad por stream y estado.
type Scholarship struct {
	ID            string   `json:"id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Provider      string   `json:"provider" validate:"required"`
	Type          string   `json:"type" validate:"omitempty,oneof=Public Private Government"`
	State         string   `json:"state"`
	Streams       []string `json:"streams" validate:"required,min=1"`
	Amount        float64  `json:"amount" validate:"gte=0"`
	MinPercentage *float64 `json:"min_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Deadline      string   `json:"deadline,omitempty"`
}

// Inventory agrupa los candidatos que recibe el motor.
type Inventory struct {
	Colleges     []College     `json:"colleges"`
	Courses      []Course      `json:"courses"`
	Scholarships []Scholarship `json:"scholarships"`
}
