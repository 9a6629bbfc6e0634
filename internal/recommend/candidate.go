package recommend

import (
	"math"
	"strings"

	"edupath/internal/domain"
)

// Profile es la vista de un candidato que usan los filtros y el ranking.
// Un atributo vacio o nil significa que el candidato no lo declara.
// MinPercentage es un requisito de elegibilidad (becas); cuando esta presente
// reemplaza las bandas de cutoff de admision.
type Profile struct {
	Name                 string
	State                string
	District             string
	Type                 string
	Fee                  *float64
	Cutoff               *float64
	MinPercentage        *float64
	ScholarshipAvailable bool
}

// kind describe como tratar un tipo de candidato.
type kind[T any] struct {
	profile       func(T) Profile
	matchesStream func(T, StreamDefinition) bool
	// tiebreak se aplica despues de las claves comunes; nil conserva el orden de entrada.
	tiebreak func(a, b T) int
}

var collegeKind = kind[domain.College]{
	profile: func(c domain.College) Profile {
		return Profile{
			Name:                 c.Name,
			State:                c.State,
			District:             c.District,
			Type:                 c.Type,
			Fee:                  c.AnnualFee,
			Cutoff:               c.Cutoff,
			ScholarshipAvailable: c.ScholarshipAvailable,
		}
	},
	matchesStream: func(c domain.College, s StreamDefinition) bool {
		return s.Matches(c.Courses...)
	},
}

var courseKind = kind[domain.CourseRecommendation]{
	profile: func(r domain.CourseRecommendation) Profile {
		return Profile{
			Name:                 r.Course.Name,
			Fee:                  r.Course.AverageFee,
			Cutoff:               r.Course.MinPercentage,
			ScholarshipAvailable: r.Course.ScholarshipAvailable,
		}
	},
	matchesStream: func(r domain.CourseRecommendation, s StreamDefinition) bool {
		return s.Matches(r.Course.Degree, r.Course.Name)
	},
	tiebreak: func(a, b domain.CourseRecommendation) int {
		switch {
		case a.MatchScore > b.MatchScore:
			return -1
		case a.MatchScore < b.MatchScore:
			return 1
		}
		return 0
	},
}

var scholarshipKind = kind[domain.Scholarship]{
	profile: func(s domain.Scholarship) Profile {
		return Profile{
			Name:                 s.Name,
			State:                s.State,
			MinPercentage:        s.MinPercentage,
			ScholarshipAvailable: true,
		}
	},
	matchesStream: func(sc domain.Scholarship, s StreamDefinition) bool {
		for _, name := range sc.Streams {
			if strings.EqualFold(name, s.Name) || strings.EqualFold(name, "all") {
				return true
			}
		}
		return false
	},
}

// MatchScore mide la afinidad 0-100 de un curso: el promedio de los totales de
// sus traits relativo al trait mas alto del usuario.
func MatchScore(traits []string, scores map[string]float64) float64 {
	if len(traits) == 0 {
		return 0
	}
	var max float64
	for _, v := range scores {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return 0
	}
	var sum float64
	for _, t := range traits {
		sum += scores[t]
	}
	score := sum / float64(len(traits)) / max * 100
	score = math.Max(0, math.Min(100, score))
	return math.Round(score*10) / 10
}
