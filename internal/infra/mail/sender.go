package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templates embed.FS

var welcomeTmpl = template.Must(template.ParseFS(templates, "templates/welcome.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendWelcome envia o acesso inicial do cliente recém-provisionado.
func (s *EmailSender) SendWelcome(to, name, loginURL, tempPassword string) error {
	if s.Host == "" {
		log.Warn().Str("to", to).Msg("⚠️ SMTP não configurado, e-mail de boas-vindas ignorado")
		return nil
	}

	body, err := renderWelcome(WelcomeEmailData{
		Name:         name,
		LoginURL:     loginURL,
		Email:        to,
		TempPassword: tempPassword,
	})
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Bem-vindo ao ConectaLead, %s! Seu acesso chegou 🚀", name))
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	log.Info().Str("to", to).Msg("📧 e-mail de boas-vindas enviado")
	return nil
}

func renderWelcome(data WelcomeEmailData) (string, error) {
	var body bytes.Buffer
	if err := welcomeTmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
