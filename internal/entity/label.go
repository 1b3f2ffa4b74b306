package entity

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Label é uma etiqueta livre do cliente. Nomes repetidos são permitidos.
type Label struct {
	ID       string      `json:"id"`
	ClientID string      `json:"client_id"`
	Name     string      `json:"name"`
	Color    ColumnColor `json:"color"`
}

func NewLabel(clientID, name string, color ColumnColor) (*Label, error) {
	name = strings.TrimSpace(name)
	if clientID == "" || name == "" {
		return nil, errors.New("client_id e name são obrigatórios")
	}
	if !color.Valid() {
		color = ColorGray
	}
	return &Label{ID: uuid.New().String(), ClientID: clientID, Name: name, Color: color}, nil
}

// LeadLabel é o registro de associação lead <-> etiqueta.
type LeadLabel struct {
	LeadID  string `json:"lead_id"`
	LabelID string `json:"label_id"`
}
