package conversation

import (
	"github.com/Chative-storefront/server/internal/shop/model"
	logx "github.com/Chative-storefront/server/pkg/logger"
)

// SyncDraft overwrites the items of the open draft at the tail of the active
// session with a projection of the cart. It is the cart.Store listener and
// never creates a draft. It returns the session it touched, if any.
func (l *Log) SyncDraft(items []model.CartItem) (*model.Session, bool) {
	s := l.Active()
	last := s.Last()
	if !last.IsOpenDraft() {
		return nil, false
	}
	d, _ := last.Draft()
	d.Items = model.ProjectCart(items)

	logx.Debug().
		Str("session_id", s.ID).
		Str("message_id", last.ID).
		Int("items", len(d.Items)).
		Msg("draft synced with cart")
	return s, true
}

// ShowDraft appends a draft projected from the cart, unless the session
// already ends with an open draft.
func (l *Log) ShowDraft(sessionID string, items []model.CartItem) (*model.Message, bool) {
	s, ok := l.Session(sessionID)
	if !ok {
		return nil, false
	}
	if last := s.Last(); last.IsOpenDraft() {
		return last, false
	}
	msg := model.NewDraftMessage(model.ProjectCart(items))
	s.Messages = append(s.Messages, msg)
	return msg, true
}

// openDraftAt returns the open draft message and a valid item index.
func (l *Log) openDraftAt(messageID string, index int) (*model.Session, *model.DraftPayload, bool) {
	s, m, ok := l.locate(messageID)
	if !ok || !m.IsOpenDraft() {
		return nil, nil, false
	}
	d, _ := m.Draft()
	if index < 0 || index >= len(d.Items) {
		return nil, nil, false
	}
	return s, d, true
}

// UpdateDraftItem swaps the product of one draft line. The cart is not
// touched, so the draft may differ from it until the next cart change.
func (l *Log) UpdateDraftItem(messageID string, index int, productID string) (*model.Session, bool) {
	s, d, ok := l.openDraftAt(messageID, index)
	if !ok {
		return nil, false
	}
	d.Items[index].ProductID = productID
	return s, true
}

// UpdateDraftQuantity applies delta to one draft line, never going below 1.
// Like UpdateDraftItem it does not write back to the cart.
func (l *Log) UpdateDraftQuantity(messageID string, index, delta int) (*model.Session, bool) {
	s, d, ok := l.openDraftAt(messageID, index)
	if !ok {
		return nil, false
	}
	d.Items[index].Quantity = max(1, d.Items[index].Quantity+delta)
	return s, true
}

// Confirm freezes an open draft. Confirmation is one-way; confirming twice or
// confirming a non-draft reports false.
func (l *Log) Confirm(messageID string) (*model.Session, *model.Message, bool) {
	s, m, ok := l.locate(messageID)
	if !ok || !m.IsOpenDraft() {
		return nil, nil, false
	}
	d, _ := m.Draft()
	d.Confirmed = true
	return s, m, true
}
