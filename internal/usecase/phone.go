package usecase

import "strings"

const brazilDDI = "55"

// NormalizePhone deixa só os dígitos e adiciona o DDI do Brasil quando o
// número vem apenas com DDD (10 ou 11 dígitos).
func NormalizePhone(phone string) string {
	digits := strings.TrimLeft(nonDigit.ReplaceAllString(phone, ""), "0")
	if len(digits) == 10 || len(digits) == 11 {
		return brazilDDI + digits
	}
	return digits
}

// WhatsAppLink monta o link de conversa para o telefone do lead.
func WhatsAppLink(phone string) string {
	n := NormalizePhone(phone)
	if n == "" {
		return ""
	}
	return "https://wa.me/" + n
}
