package recommend

import (
	"cmp"
	"slices"
	"strings"
)

// AcademicTier es el bucket derivado del rendimiento academico declarado.
type AcademicTier string

const (
	TierNone         AcademicTier = ""
	TierExcellent    AcademicTier = "excellent"
	TierVeryGood     AcademicTier = "very_good"
	TierGood         AcademicTier = "good"
	TierAverage      AcademicTier = "average"
	TierBelowAverage AcademicTier = "below_average"
)

// ParseAcademicTier normaliza "Very Good", "very-good", etc. Valores desconocidos devuelven TierNone.
func ParseAcademicTier(value string) AcademicTier {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	switch AcademicTier(v) {
	case TierExcellent, TierVeryGood, TierGood, TierAverage, TierBelowAverage:
		return AcademicTier(v)
	}
	return TierNone
}

func (t AcademicTier) high() bool {
	return t == TierExcellent || t == TierVeryGood
}

// floor es el porcentaje minimo que garantiza el tier (limite inferior de su rango).
func (t AcademicTier) floor() float64 {
	switch t {
	case TierExcellent:
		return 90
	case TierVeryGood:
		return 80
	case TierGood:
		return 70
	case TierAverage:
		return 60
	}
	return 0
}

// institutionTypes traduce la preferencia al vocabulario del inventario.
var institutionTypes = map[string][]string{
	"public":     {"public", "government", "aided"},
	"government": {"public", "government", "aided"},
	"private":    {"private"},
}

func matchesInstitutionType(want, got string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	got = strings.ToLower(strings.TrimSpace(got))
	if types, ok := institutionTypes[want]; ok {
		return slices.Contains(types, got)
	}
	return want == got
}

const (
	lowBudgetCeiling    = 100000
	mediumBudgetCeiling = 500000
)

// budgetCeiling devuelve el tope de fee del tier; ok=false si el tier no limita.
func budgetCeiling(tier string) (float64, bool) {
	switch strings.ToLower(tier) {
	case "low", "low_medium":
		return lowBudgetCeiling, true
	case "medium":
		return mediumBudgetCeiling, true
	}
	return 0, false
}

func lowBudget(tier string) bool {
	t := strings.ToLower(tier)
	return t == "low" || t == "low_medium"
}

// Criteria son los filtros activos para una recomendacion.
type Criteria struct {
	Stream              StreamDefinition
	Location            string
	City                string
	Budget              string
	InstitutionType     string
	ScholarshipPriority float64
	Tier                AcademicTier
}

// CriteriaFrom arma los criterios a partir de las preferencias registradas.
func CriteriaFrom(stream StreamDefinition, prefs Preferences, tier AcademicTier) Criteria {
	c := Criteria{Stream: stream, Tier: tier}
	if loc, ok := prefs.String(PrefLocation); ok && !anyLocation(loc) {
		c.Location = normalizePlace(loc)
	}
	if city, ok := prefs.String(PrefCity); ok && !anyLocation(city) {
		c.City = normalizePlace(city)
	}
	c.Budget, _ = prefs.String(PrefBudget)
	if t, ok := prefs.String(PrefTypePreference); ok && !strings.EqualFold(t, "any") {
		c.InstitutionType = t
	}
	c.ScholarshipPriority, _ = prefs.Number(PrefScholarshipPriority)
	return c
}

func (c Criteria) scholarshipFirst() bool {
	return c.ScholarshipPriority >= 4
}

func anyLocation(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "any" || v == "anywhere"
}

func normalizePlace(v string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(v, "_", " ")))
}

type predicate func(Profile) bool

// filters devuelve los filtros de preferencia activos, en orden fijo.
func (c Criteria) filters() []predicate {
	var out []predicate
	if c.Location != "" {
		out = append(out, func(p Profile) bool {
			if p.State == "" && p.District == "" {
				return true
			}
			return normalizePlace(p.State) == c.Location || normalizePlace(p.District) == c.Location
		})
	}
	if c.City != "" {
		out = append(out, func(p Profile) bool {
			if p.State == "" && p.District == "" {
				return true
			}
			if p.District == "" {
				// sin distrito vale el estado, igual que en el filtro de ubicacion
				return c.Location == "" || p.State == "" || normalizePlace(p.State) == c.Location
			}
			if normalizePlace(p.District) == c.City {
				return true
			}
			return strings.Contains(strings.ToLower(p.Name), c.City)
		})
	}
	if ceiling, ok := budgetCeiling(c.Budget); ok {
		out = append(out, func(p Profile) bool {
			return p.Fee == nil || *p.Fee <= ceiling
		})
	}
	if c.InstitutionType != "" {
		out = append(out, func(p Profile) bool {
			return p.Type == "" || matchesInstitutionType(c.InstitutionType, p.Type)
		})
	}
	if c.scholarshipFirst() {
		out = append(out, func(p Profile) bool {
			return p.ScholarshipAvailable
		})
	}
	if c.Tier != TierNone {
		tier := c.Tier
		out = append(out, func(p Profile) bool {
			if p.MinPercentage != nil {
				return tier.floor() >= *p.MinPercentage
			}
			return tier.admits(p.Cutoff)
		})
	}
	return out
}

// admits aplica las bandas de cutoff de admision del tier.
func (t AcademicTier) admits(cutoff *float64) bool {
	switch t {
	case TierExcellent, TierVeryGood:
		return cutoff == nil || *cutoff >= 80
	case TierGood, TierAverage:
		return cutoff != nil && *cutoff >= 60 && *cutoff < 90
	case TierBelowAverage:
		return cutoff == nil || *cutoff < 80
	}
	return true
}

// Ranked es una lista truncada con el conteo previo al truncado.
type Ranked[T any] struct {
	Items []T
	Total int
}

// filterAndRank aplica stream match, filtros de preferencia, orden estable y truncado.
func filterAndRank[T any](items []T, k kind[T], c Criteria, limit int) Ranked[T] {
	kept := make([]T, 0, len(items))
	preds := c.filters()
	for _, item := range items {
		if !k.matchesStream(item, c.Stream) {
			continue
		}
		p := k.profile(item)
		if passesAll(p, preds) {
			kept = append(kept, item)
		}
	}

	slices.SortStableFunc(kept, func(a, b T) int {
		if n := c.compare(k.profile(a), k.profile(b)); n != 0 {
			return n
		}
		if k.tiebreak != nil {
			return k.tiebreak(a, b)
		}
		return 0
	})

	total := len(kept)
	if limit >= 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	return Ranked[T]{Items: kept, Total: total}
}

func passesAll(p Profile, preds []predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}

// compare ordena por beca disponible, fee ascendente y cutoff descendente segun los criterios.
func (c Criteria) compare(a, b Profile) int {
	if c.scholarshipFirst() && a.ScholarshipAvailable != b.ScholarshipAvailable {
		if a.ScholarshipAvailable {
			return -1
		}
		return 1
	}
	if lowBudget(c.Budget) {
		if n := compareOptional(a.Fee, b.Fee, false); n != 0 {
			return n
		}
	}
	if c.Tier.high() {
		if n := compareOptional(a.Cutoff, b.Cutoff, true); n != 0 {
			return n
		}
	}
	return 0
}

// compareOptional deja los valores nil al final.
func compareOptional(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if desc {
		return cmp.Compare(*b, *a)
	}
	return cmp.Compare(*a, *b)
}
