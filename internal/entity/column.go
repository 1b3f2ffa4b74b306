package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ColumnColor string

const (
	ColorBlue   ColumnColor = "blue"
	ColorGreen  ColumnColor = "green"
	ColorYellow ColumnColor = "yellow"
	ColorRed    ColumnColor = "red"
	ColorPurple ColumnColor = "purple"
	ColorGray   ColumnColor = "gray"
	ColorOrange ColumnColor = "orange"
	ColorPink   ColumnColor = "pink"
)

var palette = map[ColumnColor]bool{
	ColorBlue: true, ColorGreen: true, ColorYellow: true, ColorRed: true,
	ColorPurple: true, ColorGray: true, ColorOrange: true, ColorPink: true,
}

func (c ColumnColor) Valid() bool {
	return palette[c]
}

// Column é uma etapa do funil Kanban. Empates de Order são desfeitos por
// CreatedAt. Leads é preenchido apenas na montagem do quadro e nunca é
// persistido.
type Column struct {
	ID        string      `json:"id"`
	ClientID  string      `json:"client_id"`
	Name      string      `json:"name"`
	Order     int         `json:"order"`
	Color     ColumnColor `json:"color"`
	CreatedAt time.Time   `json:"created_at"`
	Leads     []Lead      `json:"leads"`
}

func NewColumn(clientID, name string, order int, color ColumnColor) (*Column, error) {
	name = strings.TrimSpace(name)
	if clientID == "" {
		return nil, errors.New("client_id é obrigatório")
	}
	if name == "" {
		return nil, errors.New("name é obrigatório")
	}
	if !color.Valid() {
		color = ColorGray
	}
	return &Column{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		Name:      name,
		Order:     order,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DefaultColumns são as quatro colunas criadas junto com o cliente.
func DefaultColumns(clientID string) []*Column {
	seed := []struct {
		name  string
		color ColumnColor
	}{
		{"Novos leads", ColorBlue},
		{"Em atendimento", ColorYellow},
		{"Proposta enviada", ColorPurple},
		{"Fechado", ColorGreen},
	}

	now := time.Now().UTC()
	columns := make([]*Column, 0, len(seed))
	for i, s := range seed {
		columns = append(columns, &Column{
			ID:        uuid.New().String(),
			ClientID:  clientID,
			Name:      s.name,
			Order:     i,
			Color:     s.color,
			CreatedAt: now,
		})
	}
	return columns
}
