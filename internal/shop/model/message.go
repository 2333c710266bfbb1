package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleAgent  Role = "agent"
	RoleSystem Role = "system"
)

type MessageType string

const (
	TypeText           MessageType = "text"
	TypeAudio          MessageType = "audio"
	TypeOrderDraft     MessageType = "order-draft"
	TypeOrderConfirmed MessageType = "order-confirmed"
	TypeOrderImage     MessageType = "order-image"
)

// Payload is the typed data carried by non-text messages. The set of
// implementations is closed: DraftPayload, AudioPayload, ImagePayload and
// ConfirmedPayload.
type Payload interface {
	Kind() MessageType
	clone() Payload
}

// DraftPayload is the mutable order list of an order-draft message.
// Once Confirmed is set the items never change again.
type DraftPayload struct {
	Items     []OrderItem `json:"items"`
	Confirmed bool        `json:"isConfirmed"`
}

func (p *DraftPayload) Kind() MessageType { return TypeOrderDraft }

func (p *DraftPayload) clone() Payload {
	cp := *p
	cp.Items = append([]OrderItem(nil), p.Items...)
	return &cp
}

// AudioPayload carries the transcript of a voice input.
type AudioPayload struct {
	Transcript string        `json:"transcript"`
	Duration   time.Duration `json:"duration"`
}

func (p *AudioPayload) Kind() MessageType { return TypeAudio }

func (p *AudioPayload) clone() Payload {
	cp := *p
	return &cp
}

type ImageSource string

const (
	ImageHandwritten ImageSource = "handwritten"
	ImageScan        ImageSource = "scan"
)

// ImagePayload describes a photographed order or a scanned barcode.
type ImagePayload struct {
	Source ImageSource `json:"source"`
}

func (p *ImagePayload) Kind() MessageType { return TypeOrderImage }

func (p *ImagePayload) clone() Payload {
	cp := *p
	return &cp
}

// ConfirmedPayload is an immutable summary of a placed order.
type ConfirmedPayload struct {
	OrderNumber string      `json:"orderNumber"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
}

func (p *ConfirmedPayload) Kind() MessageType { return TypeOrderConfirmed }

func (p *ConfirmedPayload) clone() Payload {
	cp := *p
	cp.Items = append([]OrderItem(nil), p.Items...)
	return &cp
}

type Message struct {
	ID        string
	Role      Role
	Type      MessageType
	Content   string
	Payload   Payload
	Timestamp time.Time
}

func newMessage(role Role, typ MessageType, content string, payload Payload) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Type:      typ,
		Content:   content,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

func NewTextMessage(role Role, content string) *Message {
	return newMessage(role, TypeText, content, nil)
}

// NewDraftMessage creates an open agent draft holding a copy of items.
func NewDraftMessage(items []OrderItem) *Message {
	return newMessage(RoleAgent, TypeOrderDraft, "", &DraftPayload{
		Items: append([]OrderItem{}, items...),
	})
}

func NewAudioMessage(role Role, transcript string, d time.Duration) *Message {
	return newMessage(role, TypeAudio, transcript, &AudioPayload{Transcript: transcript, Duration: d})
}

func NewImageMessage(role Role, source ImageSource, content string) *Message {
	return newMessage(role, TypeOrderImage, content, &ImagePayload{Source: source})
}

func NewConfirmedMessage(content string, p ConfirmedPayload) *Message {
	return newMessage(RoleAgent, TypeOrderConfirmed, content, p.clone())
}

// Draft returns the draft payload when m is an order-draft.
func (m *Message) Draft() (*DraftPayload, bool) {
	if m == nil || m.Type != TypeOrderDraft {
		return nil, false
	}
	d, ok := m.Payload.(*DraftPayload)
	return d, ok
}

// IsOpenDraft reports whether m is an order-draft that has not been confirmed.
func (m *Message) IsOpenDraft() bool {
	d, ok := m.Draft()
	return ok && !d.Confirmed
}

// Clone returns a deep copy, payload included.
func (m *Message) Clone() *Message {
	cp := *m
	if m.Payload != nil {
		cp.Payload = m.Payload.clone()
	}
	return &cp
}

type wireMessage struct {
	ID        string          `json:"id"`
	Role      Role            `json:"role"`
	Type      MessageType     `json:"type"`
	Content   string          `json:"content,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{
		ID:        m.ID,
		Role:      m.Role,
		Type:      m.Type,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Payload != nil {
		if m.Payload.Kind() != m.Type {
			return nil, fmt.Errorf("message %s: payload %s does not match type %s", m.ID, m.Payload.Kind(), m.Type)
		}
		data, err := json.Marshal(m.Payload)
		if err != nil {
			return nil, err
		}
		w.Data = data
	}
	return json.Marshal(w)
}

func (m *Message) UnmarshalJSON(b []byte) error {
	var w wireMessage
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var payload Payload
	switch w.Type {
	case TypeText:
	case TypeOrderDraft:
		payload = &DraftPayload{}
	case TypeAudio:
		payload = &AudioPayload{}
	case TypeOrderImage:
		payload = &ImagePayload{}
	case TypeOrderConfirmed:
		payload = &ConfirmedPayload{}
	default:
		return fmt.Errorf("message %s: unknown type %q", w.ID, w.Type)
	}
	if payload != nil && len(w.Data) > 0 {
		if err := json.Unmarshal(w.Data, payload); err != nil {
			return fmt.Errorf("message %s: decode %s payload: %w", w.ID, w.Type, err)
		}
	}

	*m = Message{
		ID:        w.ID,
		Role:      w.Role,
		Type:      w.Type,
		Content:   w.Content,
		Payload:   payload,
		Timestamp: w.Timestamp,
	}
	return nil
}
