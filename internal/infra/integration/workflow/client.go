package workflow

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// Client fala com o motor de workflows que mantém a sessão do WhatsApp.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// QRCode pede o código de pareamento. O motor pode responder com uma imagem
// (data URI ou base64 puro) ou com a string crua do pareamento, que é
// renderizada aqui.
func (c *Client) QRCode(ctx context.Context, session string) (*QRCode, error) {
	body, err := c.get(ctx, "/gerar-qrcode", session)
	if err != nil {
		return nil, err
	}

	var resp qrCodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// resposta em texto puro
		resp.Code = strings.TrimSpace(string(body))
	}

	raw := firstNonEmpty(resp.QRCode, resp.Base64, resp.Code)
	if raw == "" {
		return nil, fmt.Errorf("workflow: resposta sem qrcode")
	}

	image, err := toDataURI(raw)
	if err != nil {
		log.Error().Err(err).Str("session", session).Msg("❌ Workflow: erro ao renderizar QR code")
		return nil, err
	}
	return &QRCode{Image: image}, nil
}

func (c *Client) Status(ctx context.Context, session string) (SessionStatus, error) {
	body, err := c.get(ctx, "/status-sessao", session)
	if err != nil {
		return "", err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Error().Err(err).Msg("❌ Workflow: erro ao parsear status")
		return "", err
	}
	return normalizeStatus(resp), nil
}

func (c *Client) get(ctx context.Context, path, session string) ([]byte, error) {
	if c.baseURL == "" {
		log.Warn().Msg("⚠️ Workflow: WORKFLOW_BASE_URL não configurada")
		return nil, fmt.Errorf("workflow não configurado")
	}

	endpoint := fmt.Sprintf("%s%s?session=%s", c.baseURL, path, url.QueryEscape(session))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("❌ Workflow: erro na requisição")
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("body", string(respBody)).Msg("❌ Workflow: API retornou erro")
		var apiErr ErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("workflow: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("workflow api error: %d", resp.StatusCode)
	}
	return respBody, nil
}

func toDataURI(raw string) (string, error) {
	if strings.HasPrefix(raw, "data:image/") {
		return raw, nil
	}
	if looksLikePNG(raw) {
		return "data:image/png;base64," + raw, nil
	}

	png, err := qrcode.Encode(raw, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar qrcode: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func looksLikePNG(s string) bool {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(data) < 8 {
		return false
	}
	return string(data[1:4]) == "PNG"
}

func normalizeStatus(resp statusResponse) SessionStatus {
	if resp.Connected != nil {
		if *resp.Connected {
			return StatusConnected
		}
		return StatusDisconnected
	}

	switch strings.ToLower(firstNonEmpty(resp.Status, resp.State)) {
	case "connected", "open", "conectado", "inchat", "islogged":
		return StatusConnected
	case "disconnected", "close", "closed", "desconectado", "notlogged":
		return StatusDisconnected
	}
	return StatusPending
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
