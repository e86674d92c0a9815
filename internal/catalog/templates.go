package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed comedy.yaml
var defaultComedy []byte

const (
	DateIdeaDeFi         = "defi_focused"
	DateIdeaNFT          = "nft_focused"
	DateIdeaMeme         = "meme_focused"
	DateIdeaConservative = "conservative_focused"
	DateIdeaTrading      = "trading_focused"

	TraitCommentBothHighRisk     = "both_high_risk"
	TraitCommentBothLowRisk      = "both_low_risk"
	TraitCommentOppositeRisk     = "opposite_risk"
	TraitCommentBothNFTLovers    = "both_nft_lovers"
	TraitCommentBothNFTHaters    = "both_nft_haters"
	TraitCommentBothDeFiAddicts  = "both_defi_addicts"
	TraitCommentBothMemecoinFans = "both_memecoin_fans"
)

// HeaderTier asocia un puntaje minimo con un titular de resultado.
type HeaderTier struct {
	Min  int    `yaml:"min"`
	Text string `yaml:"text"`
}

// ComedyTemplates son las tablas de texto del generador de contenido.
type ComedyTemplates struct {
	MatchComments struct {
		High   []string `yaml:"high_compatibility"`
		Medium []string `yaml:"medium_compatibility"`
		Low    []string `yaml:"low_compatibility"`
	} `yaml:"match_comments"`
	DateIdeas           map[string][]string `yaml:"date_ideas"`
	TraitComments       map[string]string   `yaml:"trait_comments"`
	PersonalityRoasts   []string            `yaml:"personality_roasts"`
	ResultHeaders       []HeaderTier        `yaml:"result_headers"`
	ViralShareTemplates []string            `yaml:"viral_share_templates"`
	OpeningLines        []string            `yaml:"opening_lines"`
}

// LoadDefaultTemplates carga las plantillas embebidas.
func LoadDefaultTemplates() (*ComedyTemplates, error) {
	return ParseTemplates(defaultComedy)
}

// LoadTemplatesFile carga plantillas alternativas desde disco.
func LoadTemplatesFile(path string) (*ComedyTemplates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates %s: %w", path, err)
	}
	return ParseTemplates(data)
}

func ParseTemplates(data []byte) (*ComedyTemplates, error) {
	var t ComedyTemplates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(t.MatchComments.High) == 0 || len(t.MatchComments.Medium) == 0 || len(t.MatchComments.Low) == 0 {
		return nil, errors.New("templates: match comments must cover every tier")
	}
	if len(t.DateIdeas[DateIdeaTrading]) == 0 {
		return nil, errors.New("templates: trading date ideas are required as fallback")
	}
	if len(t.ResultHeaders) == 0 {
		return nil, errors.New("templates: result headers are required")
	}
	if len(t.ViralShareTemplates) == 0 {
		return nil, errors.New("templates: share templates are required")
	}
	// Titulares de mayor a menor para que el primer umbral alcanzado gane.
	sort.SliceStable(t.ResultHeaders, func(i, j int) bool {
		return t.ResultHeaders[i].Min > t.ResultHeaders[j].Min
	})
	return &t, nil
}

// Header devuelve el titular correspondiente al puntaje.
func (t *ComedyTemplates) Header(score int) string {
	for _, tier := range t.ResultHeaders {
		if score >= tier.Min {
			return tier.Text
		}
	}
	return t.ResultHeaders[len(t.ResultHeaders)-1].Text
}

// MatchCommentPool devuelve los comentarios del tramo de compatibilidad.
func (t *ComedyTemplates) MatchCommentPool(score int) []string {
	switch {
	case score >= 80:
		return t.MatchComments.High
	case score >= 50:
		return t.MatchComments.Medium
	default:
		return t.MatchComments.Low
	}
}

// DateIdeaPool devuelve las ideas de la categoria, o las de trading si no existe.
func (t *ComedyTemplates) DateIdeaPool(category string) []string {
	if ideas, ok := t.DateIdeas[category]; ok && len(ideas) > 0 {
		return ideas
	}
	return t.DateIdeas[DateIdeaTrading]
}
