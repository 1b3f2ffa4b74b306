package workflow

// SessionStatus é o estado da sessão do WhatsApp no motor de workflows.
type SessionStatus string

const (
	StatusPending      SessionStatus = "pending"
	StatusConnected    SessionStatus = "connected"
	StatusDisconnected SessionStatus = "disconnected"
)

// QRCode carrega a imagem pronta para exibir (data URI PNG).
type QRCode struct {
	Image string `json:"image"`
}

type qrCodeResponse struct {
	QRCode string `json:"qrcode"`
	Base64 string `json:"base64"`
	Code   string `json:"code"`
}

type statusResponse struct {
	Status    string `json:"status"`
	State     string `json:"state"`
	Connected *bool  `json:"connected"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
