package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Recognized event types carried on the email-notifications topic.
const (
	TypePasswordChanged = "PASSWORD_CHANGED"
	TypeOfferCreated    = "OFFER_CREATED"
	TypeOfferAccepted   = "OFFER_ACCEPTED"
	TypeOfferRejected   = "OFFER_REJECTED"
)

// Envelope is the wire format for notification events. Data stays opaque at
// this level; its shape depends on EventType.
type Envelope struct {
	EventType string          `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Party identifies one side of an offer for notification purposes.
type Party struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// OfferEvent is the payload for OFFER_CREATED, OFFER_ACCEPTED and
// OFFER_REJECTED. The offeror is the buyer, the offeree the game owner.
type OfferEvent struct {
	OfferID string `json:"offerId"`
	GameID  string `json:"gameId"`
	Amount  int64  `json:"amount"`
	Offeror Party  `json:"offeror"`
	Offeree Party  `json:"offeree"`
}

// PasswordChangedEvent is the payload for PASSWORD_CHANGED.
type PasswordChangedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Encode wraps payload in an Envelope stamped with the current time and
// returns its JSON encoding.
func Encode(eventType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	env := Envelope{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", eventType, err)
	}
	return raw, nil
}

// Decode parses a raw message into an Envelope. Unknown fields are ignored so
// newer producers can add fields without breaking older consumers.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

// HasData reports whether the envelope carries a non-null data payload.
func (e Envelope) HasData() bool {
	return len(e.Data) > 0 && !bytes.Equal(e.Data, []byte("null"))
}
