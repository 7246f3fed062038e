package event

import (
	"encoding/json"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := OfferEvent{
		OfferID: "offer-1",
		GameID:  "game-1",
		Amount:  50,
		Offeror: Party{ID: "buyer", Email: "buyer@example.com"},
		Offeree: Party{ID: "owner", Email: "owner@example.com"},
	}

	raw, err := Encode(TypeOfferCreated, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	env, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.EventType != TypeOfferCreated {
		t.Fatalf("expected event type %s got %s", TypeOfferCreated, env.EventType)
	}
	if env.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
	if !env.HasData() {
		t.Fatal("expected envelope to carry data")
	}

	var decoded OfferEvent
	if err := json.Unmarshal(env.Data, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded != payload {
		t.Fatalf("payload mismatch: %+v != %+v", decoded, payload)
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	raw := []byte(`{"eventType":"PASSWORD_CHANGED","timestamp":"2024-01-02T03:04:05Z","data":{"userId":"u1","email":"a@b.c","extra":"ignored"},"futureField":42}`)

	env, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.EventType != TypePasswordChanged {
		t.Fatalf("unexpected event type %s", env.EventType)
	}

	var payload PasswordChangedEvent
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.UserID != "u1" || payload.Email != "a@b.c" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHasData(t *testing.T) {
	if (Envelope{Data: nil}).HasData() {
		t.Fatal("nil data should not count as present")
	}
	if (Envelope{Data: []byte("null")}).HasData() {
		t.Fatal("null data should not count as present")
	}
	if !(Envelope{Data: []byte(`{}`)}).HasData() {
		t.Fatal("object data should count as present")
	}
}
