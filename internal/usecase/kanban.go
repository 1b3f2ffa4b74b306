package usecase

import "context"

type LeadMover interface {
	MoveLead(ctx context.Context, leadID, columnID string) error
}

// DragSession traduz um gesto de arrastar-e-soltar numa movimentação de
// lead. O id arrastado é estado transitório do gesto, não do Store.
type DragSession struct {
	mover    LeadMover
	readOnly bool
	dragged  string
}

func NewDragSession(mover LeadMover, readOnly bool) *DragSession {
	return &DragSession{mover: mover, readOnly: readOnly}
}

func (d *DragSession) ReadOnly() bool {
	return d.readOnly
}

// DragStart registra o lead arrastado. Em modo somente leitura nada é
// registrado.
func (d *DragSession) DragStart(leadID string) bool {
	if d.readOnly || leadID == "" {
		return false
	}
	d.dragged = leadID
	return true
}

// DragOver informa se a coluna aceita o drop.
func (d *DragSession) DragOver() bool {
	return !d.readOnly && d.dragged != ""
}

// Drop move o lead registrado para a coluna e limpa o gesto. Sem DragStart
// anterior o drop não tem efeito.
func (d *DragSession) Drop(ctx context.Context, columnID string) (bool, error) {
	if d.readOnly || d.dragged == "" {
		return false, nil
	}

	leadID := d.dragged
	d.dragged = ""

	if err := d.mover.MoveLead(ctx, leadID, columnID); err != nil {
		return false, err
	}
	return true, nil
}
