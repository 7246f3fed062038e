package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gameswap/gameswap/internal/event"
)

// offerCopy holds the subject lines and body templates for one offer event
// type. Bodies receive (offerID, gameID, amount).
type offerCopy struct {
	offerorSubject string
	offerorBody    string
	offereeSubject string
	offereeBody    string
}

// Templates follow the original notification wording one-to-one.
var offerCopyByType = map[string]offerCopy{
	event.TypeOfferCreated: {
		offerorSubject: "You created an offer",
		offerorBody:    "Hi,\n\nYour offer (%s) for game %s in the amount of %d has been created.\n\nThanks,\nMarketplace",
		offereeSubject: "New offer on your game",
		offereeBody:    "Hi,\n\nYou received a new offer (%s) on your game %s for %d.\n\nThanks,\nMarketplace",
	},
	event.TypeOfferAccepted: {
		offerorSubject: "Your offer was accepted",
		offerorBody:    "Hi,\n\nYour offer (%s) for game %s in the amount of %d was accepted.\n\nThanks,\nMarketplace",
		offereeSubject: "You accepted an offer",
		offereeBody:    "Hi,\n\nYou accepted offer (%s) on your game %s for %d.\n\nThanks,\nMarketplace",
	},
	event.TypeOfferRejected: {
		offerorSubject: "Your offer was rejected",
		offerorBody:    "Hi,\n\nYour offer (%s) for game %s in the amount of %d was rejected.\n\nThanks,\nMarketplace",
		offereeSubject: "You rejected an offer",
		offereeBody:    "Hi,\n\nYou rejected offer (%s) on your game %s for %d.\n\nThanks,\nMarketplace",
	},
}

const passwordChangedSubject = "Your password was changed"

const passwordChangedBody = "Hi,\n\nYour password has just been changed. If this wasn't you, " +
	"please reset your password immediately and contact support.\n\nThanks,\nSupport Team"

// handlePasswordChanged notifies the account owner, if an email is present.
func (c *Consumer) handlePasswordChanged(ctx context.Context, data json.RawMessage) error {
	var payload event.PasswordChangedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.TypePasswordChanged, err)
	}
	if payload.Email == "" {
		return nil
	}
	_, err := c.mailer.Send(ctx, payload.Email, passwordChangedSubject, passwordChangedBody)
	return err
}

// handleOffer notifies both parties of an offer event. Each recipient is
// attempted independently; one failure never suppresses the other send.
func (c *Consumer) handleOffer(ctx context.Context, eventType string, data json.RawMessage) error {
	var payload event.OfferEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", eventType, err)
	}
	text := offerCopyByType[eventType]

	var offerorErr, offereeErr error
	if payload.Offeror.Email != "" {
		body := fmt.Sprintf(text.offerorBody, payload.OfferID, payload.GameID, payload.Amount)
		_, offerorErr = c.mailer.Send(ctx, payload.Offeror.Email, text.offerorSubject, body)
	}
	if payload.Offeree.Email != "" {
		body := fmt.Sprintf(text.offereeBody, payload.OfferID, payload.GameID, payload.Amount)
		_, offereeErr = c.mailer.Send(ctx, payload.Offeree.Email, text.offereeSubject, body)
	}
	return errors.Join(offerorErr, offereeErr)
}
