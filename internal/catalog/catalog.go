package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"crypto-match/internal/domain"
)

//go:embed personalities.yaml
var defaultPersonalities []byte

// ErrEmptyCatalog indica que no hay arquetipos contra los cuales clasificar.
var ErrEmptyCatalog = errors.New("personality catalog is empty")

// Catalog mantiene los arquetipos en orden estable y la matriz de compatibilidad.
// Es inmutable despues de la carga y seguro para uso concurrente.
type Catalog struct {
	profiles []domain.PersonalityProfile
	byID     map[string]int
	matrix   map[string]map[string]int
}

type catalogFile struct {
	Personalities       []domain.PersonalityProfile `yaml:"personalities"`
	CompatibilityMatrix map[string]map[string]int   `yaml:"compatibility_matrix"`
}

// LoadDefault carga el catalogo embebido en el binario.
func LoadDefault() (*Catalog, error) {
	return Parse(defaultPersonalities)
}

// LoadFile carga un catalogo alternativo desde disco.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse valida y construye un catalogo a partir de YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(file.Personalities, file.CompatibilityMatrix)
}

// New construye un catalogo en memoria. El orden de profiles se conserva.
func New(profiles []domain.PersonalityProfile, matrix map[string]map[string]int) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		profiles: make([]domain.PersonalityProfile, len(profiles)),
		byID:     make(map[string]int, len(profiles)),
		matrix:   make(map[string]map[string]int, len(matrix)),
	}
	copy(c.profiles, profiles)

	for i, p := range c.profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("personality at index %d has no id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate personality id %q", p.ID)
		}
		for name, v := range map[string]int{
			domain.TraitRiskTolerance:     p.Traits.RiskTolerance,
			domain.TraitNFTInterest:       p.Traits.NFTInterest,
			domain.TraitDeFiEngagement:    p.Traits.DeFiEngagement,
			domain.TraitMemeCoinTolerance: p.Traits.MemeCoinTolerance,
		} {
			if v < 0 || v > 100 {
				return nil, fmt.Errorf("personality %q: %s out of range: %d", p.ID, name, v)
			}
		}
		c.byID[p.ID] = i
	}

	for a, row := range matrix {
		if _, ok := c.byID[a]; !ok {
			return nil, fmt.Errorf("compatibility matrix: unknown personality %q", a)
		}
		out := make(map[string]int, len(row))
		for b, score := range row {
			if _, ok := c.byID[b]; !ok {
				return nil, fmt.Errorf("compatibility matrix: unknown personality %q", b)
			}
			if score < 0 || score > 100 {
				return nil, fmt.Errorf("compatibility matrix: %s/%s out of range: %d", a, b, score)
			}
			out[b] = score
		}
		c.matrix[a] = out
	}

	return c, nil
}

// Profiles devuelve una copia de los arquetipos en orden de catalogo.
func (c *Catalog) Profiles() []domain.PersonalityProfile {
	out := make([]domain.PersonalityProfile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Summaries devuelve la vista publica de todos los arquetipos.
func (c *Catalog) Summaries() []domain.PersonalitySummary {
	out := make([]domain.PersonalitySummary, 0, len(c.profiles))
	for _, p := range c.profiles {
		out = append(out, p.Summary())
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.profiles)
}

// Get busca un arquetipo por id.
func (c *Catalog) Get(id string) (domain.PersonalityProfile, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.PersonalityProfile{}, false
	}
	return c.profiles[i], true
}

// Compatibility consulta la matriz dispersa. Se acepta la entrada en cualquier sentido.
func (c *Catalog) Compatibility(a, b string) (int, bool) {
	if score, ok := c.matrix[a][b]; ok {
		return score, true
	}
	if score, ok := c.matrix[b][a]; ok {
		return score, true
	}
	return 0, false
}
