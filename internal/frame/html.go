package frame

import (
	"bytes"
	"fmt"
	"html/template"

	"crypto-match/internal/domain"
)

const (
	defaultTitle       = "🚀 Find Your Crypto Soulmate!"
	defaultDescription = "Find your crypto soulmate on Farcaster! Personality analysis and smart matching for crypto degens."
)

var pageTemplate = template.Must(template.New("frame").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <meta property="fc:frame" content="vNext" />
    <meta property="fc:frame:image" content="{{.Frame.Image}}" />
    <meta property="fc:frame:image:aspect_ratio" content="{{.Frame.ImageAspectRatio}}" />
    <meta property="fc:frame:post_url" content="{{.Frame.PostURL}}" />
{{- range $i, $b := .Frame.Buttons}}
    <meta property="fc:frame:button:{{inc $i}}" content="{{$b.Label}}" />
    <meta property="fc:frame:button:{{inc $i}}:action" content="{{$b.Action}}" />
{{- if $b.Target}}
    <meta property="fc:frame:button:{{inc $i}}:target" content="{{$b.Target}}" />
{{- end}}
{{- end}}
    <meta property="og:title" content="{{.Title}}" />
    <meta property="og:description" content="{{.Description}}" />
    <meta property="og:image" content="{{.Frame.Image}}" />
    <meta property="og:url" content="{{.BaseURL}}" />
    <meta property="og:type" content="website" />
    <meta name="twitter:card" content="summary_large_image" />
    <meta name="twitter:title" content="{{.Title}}" />
    <meta name="twitter:image" content="{{.Frame.Image}}" />
</head>
<body>
    <main>
        <h1>{{.Title}}</h1>
        <img src="{{.Frame.Image}}" alt="{{.Title}}" width="600" height="600" />
        <p>{{.Description}}</p>
    </main>
</body>
</html>
`))

type pageData struct {
	Title       string
	Description string
	BaseURL     string
	Frame       domain.Frame
}

// HTML renderiza la pagina con los meta tags fc:frame que leen los clientes de Farcaster.
func (b *Builder) HTML(f domain.Frame, title string) ([]byte, error) {
	if title == "" {
		title = defaultTitle
	}
	if len(f.Buttons) > maxFrameButtons {
		f.Buttons = f.Buttons[:maxFrameButtons]
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title:       title,
		Description: defaultDescription,
		BaseURL:     b.baseURL,
		Frame:       f,
	})
	if err != nil {
		return nil, fmt.Errorf("render frame html: %w", err)
	}
	return buf.Bytes(), nil
}
