package frame

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"crypto-match/internal/domain"
)

const (
	frameVersion     = "next"
	aspectRatio      = "1:1"
	actionPost       = "post"
	maxFrameButtons  = 4
	defaultShareText = "Found my crypto soulmate!"
)

// Builder arma los payloads del flujo de frames. Todas las URLs cuelgan de baseURL.
type Builder struct {
	baseURL string
}

func NewBuilder(baseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *Builder) BaseURL() string {
	return b.baseURL
}

func (b *Builder) url(path string) string {
	return b.baseURL + path
}

func (b *Builder) button(label, path string) domain.FrameButton {
	return domain.FrameButton{Label: label, Action: actionPost, Target: b.url(path)}
}

func (b *Builder) frame(image, postPath string, buttons ...domain.FrameButton) domain.Frame {
	if len(buttons) > maxFrameButtons {
		buttons = buttons[:maxFrameButtons]
	}
	return domain.Frame{
		Version:          frameVersion,
		Image:            image,
		Buttons:          buttons,
		PostURL:          b.url(postPath),
		ImageAspectRatio: aspectRatio,
	}
}

// imageURL apunta al endpoint de imagenes dinamicas con el payload codificado.
func (b *Builder) imageURL(kind string, data any) string {
	encoded, err := EncodeData(data)
	if err != nil {
		return b.url("/images/" + kind + ".png")
	}
	return b.url("/api/generate-image/" + kind + "?data=" + encoded)
}

func (b *Builder) Start() domain.Frame {
	return b.frame(b.url("/images/start.png"), "/api/analyze",
		b.button("🔍 Find My Crypto Match!", "/api/analyze"),
		b.button("ℹ️ How It Works", "/api/info"),
	)
}

// PersonalityImage es el payload de la imagen de resultado de personalidad.
type PersonalityImage struct {
	FID         int64  `json:"fid"`
	Username    string `json:"username"`
	Name        string `json:"personality_name"`
	Emoji       string `json:"personality_emoji"`
	Description string `json:"description"`
}

func (b *Builder) PersonalityResult(a domain.UserAnalysis) domain.Frame {
	name := a.PersonalityName
	if name == "" {
		name = "Crypto Enthusiast"
	}
	emoji := a.PersonalityEmoji
	if emoji == "" {
		emoji = "🚀"
	}
	img := PersonalityImage{FID: a.FID, Username: a.Username, Name: name, Emoji: emoji, Description: a.Description}

	return b.frame(b.imageURL("personality", img), "/api/find-matches",
		b.button(fmt.Sprintf("%s I'm a %s!", emoji, name), "/api/find-matches"),
		b.button("🔎 Find My Matches", "/api/find-matches"),
	)
}

// MatchImage es el payload de las imagenes de match, detalle y share.
type MatchImage struct {
	MatchFID           int64  `json:"match_fid"`
	MatchUsername      string `json:"match_username"`
	CompatibilityScore int    `json:"compatibility_score"`
	Header             string `json:"header,omitempty"`
	MatchComment       string `json:"match_comment,omitempty"`
	DateIdea           string `json:"date_idea,omitempty"`
	ShareText          string `json:"share_text,omitempty"`
}

func matchImage(m domain.MatchResult) MatchImage {
	img := MatchImage{
		MatchFID:           m.MatchFID,
		MatchUsername:      m.MatchUsername,
		CompatibilityScore: m.CompatibilityScore,
	}
	if m.Content != nil {
		img.Header = m.Content.Header
		img.MatchComment = m.Content.MatchComment
		img.DateIdea = m.Content.DateIdea
		img.ShareText = m.Content.ShareText
	}
	return img
}

// Matches muestra el match index con navegacion. Indices fuera de rango dan el frame sin matches.
func (b *Builder) Matches(matches []domain.MatchResult, index int) domain.Frame {
	if index < 0 || index >= len(matches) {
		return b.NoMatches()
	}

	var buttons []domain.FrameButton
	if index > 0 {
		buttons = append(buttons, b.button("⬅️ Previous", fmt.Sprintf("/api/match/%d", index-1)))
	}
	if index < len(matches)-1 {
		buttons = append(buttons, b.button("➡️ Next Match", fmt.Sprintf("/api/match/%d", index+1)))
	}
	buttons = append(buttons,
		b.button("📊 View Details", fmt.Sprintf("/api/match-details/%d", index)),
		b.button("📱 Share Result", fmt.Sprintf("/api/share/%d", index)),
	)

	return b.frame(b.imageURL("match", matchImage(matches[index])), fmt.Sprintf("/api/match/%d", index), buttons...)
}

func (b *Builder) MatchDetails(m domain.MatchResult, index int) domain.Frame {
	return b.frame(b.imageURL("details", matchImage(m)), "/api/match/0",
		b.button("⬅️ Back to Matches", "/api/match/0"),
		b.button("📱 Share This Match", fmt.Sprintf("/api/share/%d", index)),
		b.button("🔄 Find New Matches", "/api/analyze"),
	)
}

func (b *Builder) Share(m domain.MatchResult) domain.Frame {
	img := matchImage(m)
	if img.ShareText == "" {
		img.ShareText = defaultShareText
	}
	return b.frame(b.imageURL("share", img), "/api/analyze",
		b.button("🚀 Try It Yourself!", "/api/analyze"),
		b.button("👀 View My Matches", "/api/match/0"),
	)
}

func (b *Builder) NoMatches() domain.Frame {
	return b.frame(b.url("/images/no-matches.png"), "/api/analyze",
		b.button("🔄 Try Again", "/api/analyze"),
		b.button("ℹ️ Why No Matches?", "/api/info"),
	)
}

func (b *Builder) Error() domain.Frame {
	return b.frame(b.url("/images/error.png"), "/api/analyze",
		b.button("🔄 Try Again", "/api/analyze"),
		b.button("🏠 Start Over", "/"),
	)
}

func (b *Builder) RateLimited() domain.Frame {
	return b.frame(b.url("/images/rate-limit.png"), "/",
		b.button("⏰ Come Back Later", "/"),
		b.button("ℹ️ Learn More", "/api/info"),
	)
}

func (b *Builder) Info() domain.Frame {
	return b.frame(b.url("/images/info.png"), "/api/analyze",
		b.button("🚀 Get Started", "/api/analyze"),
		b.button("🏠 Back to Home", "/"),
	)
}

// EncodeData serializa v como JSON en base64 url-safe para usarlo en query strings.
func EncodeData(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode frame data: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// DecodeData es la inversa de EncodeData.
func DecodeData(encoded string, v any) error {
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("decode frame data: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode frame data: %w", err)
	}
	return nil
}
