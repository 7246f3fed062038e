package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	kafka "github.com/segmentio/kafka-go"

	"github.com/gameswap/gameswap/internal/event"
	"github.com/gameswap/gameswap/internal/logging"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) (string, error) {
	if err, ok := m.failFor[to]; ok {
		return "", err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return "msg-1", nil
}

func newTestConsumer(mailer *fakeMailer) *Consumer {
	return &Consumer{mailer: mailer, logger: logging.Discard()}
}

func offerMessage(t *testing.T, eventType string, payload event.OfferEvent) kafka.Message {
	t.Helper()
	value, err := event.Encode(eventType, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return kafka.Message{Key: []byte(eventType), Value: value}
}

func TestHandleSkipsMalformedMessages(t *testing.T) {
	cases := []struct {
		name  string
		value []byte
	}{
		{"empty body", nil},
		{"invalid json", []byte("{not json")},
		{"missing event type", []byte(`{"timestamp":"2024-01-02T03:04:05Z","data":{"x":1}}`)},
		{"missing data", []byte(`{"eventType":"OFFER_CREATED","timestamp":"2024-01-02T03:04:05Z"}`)},
		{"null data", []byte(`{"eventType":"OFFER_CREATED","data":null}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mailer := &fakeMailer{}
			c := newTestConsumer(mailer)

			c.handle(context.Background(), kafka.Message{Value: tc.value})

			if len(mailer.sent) != 0 {
				t.Fatalf("expected no mail, got %v", mailer.sent)
			}
		})
	}
}

func TestHandleUnknownEventType(t *testing.T) {
	mailer := &fakeMailer{}
	c := newTestConsumer(mailer)

	c.handle(context.Background(), kafka.Message{
		Value: []byte(`{"eventType":"SOMETHING_ELSE","timestamp":"2024-01-02T03:04:05Z","data":{"x":1}}`),
	})

	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %v", mailer.sent)
	}
}

func TestOfferCreatedMailsBothParties(t *testing.T) {
	mailer := &fakeMailer{}
	c := newTestConsumer(mailer)

	msg := offerMessage(t, event.TypeOfferCreated, event.OfferEvent{
		OfferID: "o1",
		GameID:  "g1",
		Amount:  50,
		Offeror: event.Party{ID: "b", Email: "buyer@example.com"},
		Offeree: event.Party{ID: "s", Email: "owner@example.com"},
	})
	c.handle(context.Background(), msg)

	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 mails got %d", len(mailer.sent))
	}
	if mailer.sent[0].To != "buyer@example.com" || mailer.sent[0].Subject != "You created an offer" {
		t.Fatalf("unexpected offeror mail %+v", mailer.sent[0])
	}
	if mailer.sent[1].To != "owner@example.com" || mailer.sent[1].Subject != "New offer on your game" {
		t.Fatalf("unexpected offeree mail %+v", mailer.sent[1])
	}
}

func TestOfferEventSubjects(t *testing.T) {
	cases := []struct {
		eventType      string
		offerorSubject string
		offereeSubject string
	}{
		{event.TypeOfferAccepted, "Your offer was accepted", "You accepted an offer"},
		{event.TypeOfferRejected, "Your offer was rejected", "You rejected an offer"},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			mailer := &fakeMailer{}
			c := newTestConsumer(mailer)

			msg := offerMessage(t, tc.eventType, event.OfferEvent{
				OfferID: "o1",
				GameID:  "g1",
				Amount:  75,
				Offeror: event.Party{ID: "b", Email: "buyer@example.com"},
				Offeree: event.Party{ID: "s", Email: "owner@example.com"},
			})
			c.handle(context.Background(), msg)

			if len(mailer.sent) != 2 {
				t.Fatalf("expected 2 mails got %d", len(mailer.sent))
			}
			if mailer.sent[0].Subject != tc.offerorSubject {
				t.Fatalf("expected offeror subject %q got %q", tc.offerorSubject, mailer.sent[0].Subject)
			}
			if mailer.sent[1].Subject != tc.offereeSubject {
				t.Fatalf("expected offeree subject %q got %q", tc.offereeSubject, mailer.sent[1].Subject)
			}
		})
	}
}

func TestOfferEventSkipsMissingEmails(t *testing.T) {
	mailer := &fakeMailer{}
	c := newTestConsumer(mailer)

	msg := offerMessage(t, event.TypeOfferAccepted, event.OfferEvent{
		OfferID: "o1",
		GameID:  "g1",
		Amount:  50,
		Offeror: event.Party{ID: "b"},
		Offeree: event.Party{ID: "s", Email: "owner@example.com"},
	})
	c.handle(context.Background(), msg)

	if len(mailer.sent) != 1 || mailer.sent[0].To != "owner@example.com" {
		t.Fatalf("expected only the owner mail, got %v", mailer.sent)
	}
}

func TestOneRecipientFailureDoesNotBlockTheOther(t *testing.T) {
	mailer := &fakeMailer{failFor: map[string]error{"buyer@example.com": errors.New("mailbox full")}}
	c := newTestConsumer(mailer)

	payload := event.OfferEvent{
		OfferID: "o1",
		GameID:  "g1",
		Amount:  50,
		Offeror: event.Party{ID: "b", Email: "buyer@example.com"},
		Offeree: event.Party{ID: "s", Email: "owner@example.com"},
	}

	// handle must not panic or propagate; the offeree still gets mail.
	c.handle(context.Background(), offerMessage(t, event.TypeOfferCreated, payload))

	if len(mailer.sent) != 1 || mailer.sent[0].To != "owner@example.com" {
		t.Fatalf("expected the owner mail despite buyer failure, got %v", mailer.sent)
	}
}

func TestPasswordChangedMailsAccountOwner(t *testing.T) {
	mailer := &fakeMailer{}
	c := newTestConsumer(mailer)

	value, err := event.Encode(event.TypePasswordChanged, event.PasswordChangedEvent{UserID: "u1", Email: "a@b.c"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c.handle(context.Background(), kafka.Message{Value: value})

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail got %d", len(mailer.sent))
	}
	if mailer.sent[0].To != "a@b.c" || mailer.sent[0].Subject != passwordChangedSubject {
		t.Fatalf("unexpected mail %+v", mailer.sent[0])
	}
}

func TestPasswordChangedWithoutEmailSendsNothing(t *testing.T) {
	mailer := &fakeMailer{}
	c := newTestConsumer(mailer)

	value, err := event.Encode(event.TypePasswordChanged, event.PasswordChangedEvent{UserID: "u1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	c.handle(context.Background(), kafka.Message{Value: value})

	if len(mailer.sent) != 0 {
		t.Fatalf("expected no mail, got %v", mailer.sent)
	}
}

func TestOfferBodyMentionsOfferGameAndAmount(t *testing.T) {
	mailer := &fakeMailer{}
	c := newTestConsumer(mailer)

	c.handle(context.Background(), offerMessage(t, event.TypeOfferCreated, event.OfferEvent{
		OfferID: "offer-123",
		GameID:  "game-456",
		Amount:  789,
		Offeror: event.Party{ID: "b", Email: "buyer@example.com"},
	}))

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail got %d", len(mailer.sent))
	}
	body := mailer.sent[0].Body
	for _, want := range []string{"offer-123", "game-456", "789"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body %q missing %q", body, want)
		}
	}
}
