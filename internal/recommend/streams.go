package recommend

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed streams.yaml
var defaultStreamsYAML []byte

// StreamDefinition agrupa los traits que suman a un stream y las keywords
// que identifican candidatos compatibles.
type StreamDefinition struct {
	Name     string             `yaml:"name" json:"name"`
	Traits   map[string]float64 `yaml:"traits" json:"traits"`
	Keywords []string           `yaml:"keywords" json:"keywords"`
}

// Score es la suma ponderada de los traits del stream. Traits ausentes valen 0.
func (d StreamDefinition) Score(scores map[string]float64) float64 {
	var total float64
	for _, trait := range sortedKeys(d.Traits) {
		total += d.Traits[trait] * scores[trait]
	}
	return total
}

// Matches indica si algun texto contiene una keyword del stream como palabra completa.
func (d StreamDefinition) Matches(texts ...string) bool {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, kw := range d.Keywords {
			if containsWord(lower, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; from <= len(text)-len(word); {
		idx := strings.Index(text[from:], word)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(word)
		if !isWordRune(text, start-1) && !isWordRune(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func isWordRune(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	r := rune(s[i])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// StreamTable es la lista ordenada de streams; el orden define el desempate.
type StreamTable []StreamDefinition

// Classification expone el stream ganador y todos los totales.
type Classification struct {
	Stream       string             `json:"stream"`
	StreamScores map[string]float64 `json:"stream_scores"`
}

var defaultStreamTable = mustParseStreamTable(defaultStreamsYAML)

// DefaultStreamTable devuelve una copia de la tabla embebida.
func DefaultStreamTable() StreamTable {
	out := make(StreamTable, len(defaultStreamTable))
	copy(out, defaultStreamTable)
	return out
}

// ParseStreamTable decodifica y valida una tabla en YAML.
func ParseStreamTable(data []byte) (StreamTable, error) {
	var doc struct {
		Streams StreamTable `yaml:"streams"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse stream table: %w", err)
	}
	if err := doc.Streams.Validate(); err != nil {
		return nil, err
	}
	return doc.Streams, nil
}

// LoadStreamTable lee la tabla desde path; path vacio usa la tabla embebida.
func LoadStreamTable(path string) (StreamTable, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultStreamTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stream table: %w", err)
	}
	return ParseStreamTable(data)
}

func mustParseStreamTable(data []byte) StreamTable {
	t, err := ParseStreamTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

func (t StreamTable) Validate() error {
	if len(t) == 0 {
		return ErrEmptyStreamTable
	}
	seen := make(map[string]struct{}, len(t))
	for i, s := range t {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("stream %d: empty name", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("stream %q: duplicated", name)
		}
		seen[name] = struct{}{}
		if len(s.Traits) == 0 {
			return fmt.Errorf("stream %q: no traits", name)
		}
		for trait, w := range s.Traits {
			if w < 0 {
				return fmt.Errorf("stream %q: negative weight for %q", name, trait)
			}
		}
		if len(s.Keywords) == 0 {
			return fmt.Errorf("stream %q: no keywords", name)
		}
	}
	return nil
}

func (t StreamTable) Lookup(name string) (StreamDefinition, bool) {
	for _, s := range t {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return StreamDefinition{}, false
}

func (t StreamTable) Names() []string {
	names := make([]string, len(t))
	for i, s := range t {
		names[i] = s.Name
	}
	return names
}

// Classify elige el stream con mayor total; en empate gana el primero de la tabla.
func (t StreamTable) Classify(scores map[string]float64) Classification {
	c := Classification{StreamScores: make(map[string]float64, len(t))}
	best := 0.0
	for i, s := range t {
		total := s.Score(scores)
		c.StreamScores[s.Name] = total
		if i == 0 || total > best {
			best = total
			c.Stream = s.Name
		}
	}
	return c
}

// Vector ordena los totales segun la tabla, para busquedas por similitud.
func (t StreamTable) Vector(streamScores map[string]float64) []float32 {
	vec := make([]float32, len(t))
	for i, s := range t {
		vec[i] = float32(streamScores[s.Name])
	}
	return vec
}

// RankedStreams devuelve los nombres ordenados por total descendente, respetando la prioridad en empates.
func (t StreamTable) RankedStreams(streamScores map[string]float64) []string {
	names := t.Names()
	sort.SliceStable(names, func(i, j int) bool {
		return streamScores[names[i]] > streamScores[names[j]]
	})
	return names
}
