// Package catalog carga el banco de preguntas y el inventario semilla embebidos,
// validandolos con JSON Schema y reglas de struct.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"edupath/internal/domain"
)

//go:embed data/*.json schemas/*.json
var files embed.FS

// Catalog agrupa los datos semilla del servicio.
type Catalog struct {
	Questions   domain.QuestionBank
	Inventory   domain.Inventory
	CareerPaths []domain.CareerPath
	Timeline    []domain.TimelineEvent
}

// FieldError es un error de validacion en un campo concreto.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError agrupa todos los errores de un documento.
type ValidationError struct {
	Document string
	Errors   []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: validation failed", e.Document)
	for _, fe := range e.Errors {
		fmt.Fprintf(&sb, "; %s: %s", fe.Field, fe.Message)
	}
	return sb.String()
}

var validate = validator.New()

// Default carga el catalogo embebido.
func Default() (*Catalog, error) {
	var c Catalog

	data, err := files.ReadFile("data/questions.json")
	if err != nil {
		return nil, err
	}
	if c.Questions, err = ParseQuestionBank(data); err != nil {
		return nil, err
	}
	if err := loadRecords("colleges", &c.Inventory.Colleges, true); err != nil {
		return nil, err
	}
	if err := loadRecords("courses", &c.Inventory.Courses, true); err != nil {
		return nil, err
	}
	if err := loadRecords("scholarships", &c.Inventory.Scholarships, true); err != nil {
		return nil, err
	}
	if err := loadRecords("career_paths", &c.CareerPaths, false); err != nil {
		return nil, err
	}
	if err := loadRecords("timeline", &c.Timeline, false); err != nil {
		return nil, err
	}
	return &c, nil
}

// ParseQuestionBank valida y decodifica un banco de preguntas en JSON.
// Ademas del schema verifica ids unicos y que cada condicion apunte a una
// pregunta anterior y a una opcion existente.
func ParseQuestionBank(data []byte) (domain.QuestionBank, error) {
	if err := validateSchema("schemas/question_bank.schema.json", "question bank", data); err != nil {
		return nil, err
	}
	var bank domain.QuestionBank
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}

	verr := &ValidationError{Document: "question bank"}
	seen := make(map[string]domain.Question, len(bank))
	for i := range bank {
		q := &bank[i]
		q.Position = i
		if err := validate.Struct(q); err != nil {
			verr.Errors = append(verr.Errors, structErrors(q.ID, err)...)
		}
		if _, dup := seen[q.ID]; dup {
			verr.Errors = append(verr.Errors, FieldError{Field: q.ID, Message: "duplicated question id"})
		}
		values := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := values[opt.Value]; dup {
				verr.Errors = append(verr.Errors, FieldError{Field: q.ID + "." + opt.Value, Message: "duplicated option value"})
			}
			values[opt.Value] = struct{}{}
		}
		if q.DependsOn != nil {
			parent, ok := seen[q.DependsOn.QuestionID]
			switch {
			case !ok:
				verr.Errors = append(verr.Errors, FieldError{Field: q.ID + ".depends_on", Message: "must reference an earlier question"})
			default:
				if _, ok := parent.Option(q.DependsOn.Equals); !ok {
					verr.Errors = append(verr.Errors, FieldError{Field: q.ID + ".depends_on", Message: "references an unknown option"})
				}
			}
		}
		seen[q.ID] = *q
	}
	if len(verr.Errors) > 0 {
		return nil, verr
	}
	return bank, nil
}

// ParseColleges valida y decodifica una lista de colleges.
func ParseColleges(data []byte) ([]domain.College, error) {
	var out []domain.College
	err := parseRecords("colleges", data, &out, true)
	return out, err
}

func loadRecords[T any](name string, out *[]T, inventory bool) error {
	data, err := files.ReadFile("data/" + name + ".json")
	if err != nil {
		return err
	}
	return parseRecords(name, data, out, inventory)
}

func parseRecords[T any](name string, data []byte, out *[]T, inventory bool) error {
	if inventory {
		if err := validateSchema("schemas/inventory.schema.json", name, data); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	verr := &ValidationError{Document: name}
	for i := range *out {
		if err := validate.Struct((*out)[i]); err != nil {
			verr.Errors = append(verr.Errors, structErrors(fmt.Sprintf("[%d]", i), err)...)
		}
	}
	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

func validateSchema(schemaPath, document string, data []byte) error {
	schemaBytes, err := files.ReadFile(schemaPath)
	if err != nil {
		return err
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate %s: %w", document, err)
	}
	if result.Valid() {
		return nil
	}
	verr := &ValidationError{Document: document}
	for _, re := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{Field: re.Field(), Message: re.Description()})
	}
	return verr
}

func structErrors(prefix string, err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: prefix, Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: prefix + "." + fe.Namespace(), Message: "failed " + fe.Tag()})
	}
	return out
}
