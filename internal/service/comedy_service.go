package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"crypto-match/internal/catalog"
	"crypto-match/internal/domain"
	"crypto-match/internal/llm"
	"crypto-match/internal/metrics"
)

const (
	defaultTraitComment       = "You both love crypto - that's a start! 💎"
	defaultShareUsername      = "someone"
	defaultPersonalityComment = "crypto person"

	// ComedySystemPrompt es el prompt de sistema recomendado para el cliente LLM del generador.
	ComedySystemPrompt = "You are a hilarious crypto comedy writer who makes funny dating jokes using crypto culture and memes."
)

// ComedyGenerator arma el contenido humoristico de un match a partir de las plantillas.
// Si hay LLM configurado lo usa para el comentario principal; cualquier fallo cae a plantilla.
type ComedyGenerator struct {
	templates *catalog.ComedyTemplates
	llm       llm.LLMClient
	metrics   *metrics.Metrics
	logger    *zap.Logger
	picker    *picker
}

func NewComedyGenerator(templates *catalog.ComedyTemplates, llmClient llm.LLMClient, m *metrics.Metrics, logger *zap.Logger) *ComedyGenerator {
	return &ComedyGenerator{
		templates: templates,
		llm:       llmClient,
		metrics:   m,
		logger:    logger,
		picker:    newPicker(),
	}
}

// Render implementa ContentRenderer.
func (g *ComedyGenerator) Render(ctx context.Context, user, match domain.UserAnalysis, score int) domain.MatchContent {
	comment := g.AIComment(ctx, user, match, score)
	dateIdea := g.DateIdea(user.Traits, match.Traits)
	traitComment := g.TraitComment(user.Traits, match.Traits)

	return domain.MatchContent{
		Header:             g.templates.Header(score),
		CompatibilityScore: score,
		MatchComment:       comment,
		DateIdea:           dateIdea,
		TraitComment:       traitComment,
		UserRoast:          g.Roast(user),
		MatchRoast:         g.Roast(match),
		ShareText:          g.ShareText(user, match, score, shareParts{comment: comment, dateIdea: dateIdea, traitComment: traitComment}),
		OpeningLine:        g.OpeningLine(),
		UserPersonality:    user.PersonalitySummary(),
		MatchPersonality:   match.PersonalitySummary(),
	}
}

func (g *ComedyGenerator) MatchComment(score int) string {
	return g.picker.choice(g.templates.MatchCommentPool(score))
}

// AIComment pide al LLM un comentario corto; sin LLM o ante error usa MatchComment.
func (g *ComedyGenerator) AIComment(ctx context.Context, user, match domain.UserAnalysis, score int) string {
	if g.llm == nil {
		return g.MatchComment(score)
	}

	raw, err := g.llm.Generate(ctx, buildComedyPrompt(user, match, score))
	if err == nil {
		if comment := cleanLLMComment(raw); comment != "" {
			return comment
		}
		err = llm.ErrEmptyResponse
	}

	g.metrics.ObserveContentFallback()
	g.logger.Warn("ai comment failed, using template",
		zap.Int64("user_fid", user.FID),
		zap.Int64("match_fid", match.FID),
		zap.Error(err),
	)
	return g.MatchComment(score)
}

// dateIdeaCategory elige la categoria segun el promedio de rasgos objetivo de ambos perfiles.
func dateIdeaCategory(a, b domain.ProfileTraits) string {
	avg := func(x, y int) float64 { return float64(x+y) / 2 }
	switch {
	case avg(a.DeFiEngagement, b.DeFiEngagement) > 70:
		return catalog.DateIdeaDeFi
	case avg(a.NFTInterest, b.NFTInterest) > 70:
		return catalog.DateIdeaNFT
	case avg(a.MemeCoinTolerance, b.MemeCoinTolerance) > 70:
		return catalog.DateIdeaMeme
	case avg(a.RiskTolerance, b.RiskTolerance) < 40:
		return catalog.DateIdeaConservative
	default:
		return catalog.DateIdeaTrading
	}
}

func (g *ComedyGenerator) DateIdea(a, b domain.ProfileTraits) string {
	return g.picker.choice(g.templates.DateIdeaPool(dateIdeaCategory(a, b)))
}

// traitCommentKeys lista las claves de trait_comments que aplican al par.
func traitCommentKeys(a, b domain.ProfileTraits) []string {
	var keys []string

	if similarity(a.RiskTolerance, b.RiskTolerance) > 80 {
		switch {
		case a.RiskTolerance > 75:
			keys = append(keys, catalog.TraitCommentBothHighRisk)
		case a.RiskTolerance < 40:
			keys = append(keys, catalog.TraitCommentBothLowRisk)
		}
	} else {
		keys = append(keys, catalog.TraitCommentOppositeRisk)
	}

	switch {
	case a.NFTInterest > 70 && b.NFTInterest > 70:
		keys = append(keys, catalog.TraitCommentBothNFTLovers)
	case a.NFTInterest < 30 && b.NFTInterest < 30:
		keys = append(keys, catalog.TraitCommentBothNFTHaters)
	}
	if a.DeFiEngagement > 75 && b.DeFiEngagement > 75 {
		keys = append(keys, catalog.TraitCommentBothDeFiAddicts)
	}
	if a.MemeCoinTolerance > 80 && b.MemeCoinTolerance > 80 {
		keys = append(keys, catalog.TraitCommentBothMemecoinFans)
	}
	return keys
}

func (g *ComedyGenerator) TraitComment(a, b domain.ProfileTraits) string {
	var comments []string
	for _, key := range traitCommentKeys(a, b) {
		if text := g.templates.TraitComments[key]; text != "" {
			comments = append(comments, text)
		}
	}
	if len(comments) == 0 {
		return defaultTraitComment
	}
	return g.picker.choice(comments)
}

// Roast usa una linea del propio arquetipo; si no tiene, un roast generico.
func (g *ComedyGenerator) Roast(a domain.UserAnalysis) string {
	if len(a.ComedyLines) > 0 {
		return g.picker.choice(a.ComedyLines)
	}
	return g.picker.choice(g.templates.PersonalityRoasts)
}

func (g *ComedyGenerator) OpeningLine() string {
	return g.picker.choice(g.templates.OpeningLines)
}

type shareParts struct {
	comment      string
	dateIdea     string
	traitComment string
}

// ShareText rellena una plantilla viral. Los placeholders desconocidos quedan tal cual.
func (g *ComedyGenerator) ShareText(user, match domain.UserAnalysis, score int, parts shareParts) string {
	username := match.Username
	if username == "" {
		username = defaultShareUsername
	}
	personality := user.PersonalityName
	if personality == "" {
		personality = defaultPersonalityComment
	}

	r := strings.NewReplacer(
		"{compatibility}", strconv.Itoa(score),
		"{username}", username,
		"{funny_comment}", parts.comment,
		"{date_idea}", parts.dateIdea,
		"{trait_comment}", parts.traitComment,
		"{personality_comment}", personality,
	)
	return r.Replace(g.picker.choice(g.templates.ViralShareTemplates))
}

func buildComedyPrompt(user, match domain.UserAnalysis, score int) string {
	var b strings.Builder
	b.WriteString("Generate a funny, short comment (max 150 characters) about this crypto compatibility match.\n")
	fmt.Fprintf(&b, "Person 1: %s - %s\n", user.PersonalityName, user.Description)
	fmt.Fprintf(&b, "Person 2: %s - %s\n", match.PersonalityName, match.Description)
	fmt.Fprintf(&b, "Compatibility Score: %d%%\n", score)
	b.WriteString("Use crypto slang and memes, keep it light-hearted and include relevant emojis. Reply with the comment only.")
	return b.String()
}
