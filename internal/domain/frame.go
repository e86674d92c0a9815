package domain

// FrameButton es un boton de un Farcaster Frame.
type FrameButton struct {
	Label  string `json:"label"`
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
}

// Frame es el payload que devuelven los endpoints del flujo de frames.
type Frame struct {
	Version          string        `json:"version"`
	Image            string        `json:"image"`
	Buttons          []FrameButton `json:"buttons"`
	PostURL          string        `json:"post_url"`
	ImageAspectRatio string        `json:"image_aspect_ratio"`
}

// FrameAction es el cuerpo que envia el cliente de Farcaster al pulsar un boton.
type FrameAction struct {
	UntrustedData struct {
		FID         int64  `json:"fid"`
		URL         string `json:"url,omitempty"`
		MessageHash string `json:"messageHash,omitempty"`
		Timestamp   int64  `json:"timestamp,omitempty"`
		Network     int    `json:"network,omitempty"`
		ButtonIndex int    `json:"buttonIndex,omitempty"`
		InputText   string `json:"inputText,omitempty"`
	} `json:"untrustedData"`
	TrustedData struct {
		MessageBytes string `json:"messageBytes,omitempty"`
	} `json:"trustedData"`
}
