package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"phonestore/internal/dto"
	apperrors "phonestore/internal/errors"
)

const (
	metadataOrderID  = "order_id"
	metadataModel    = "model"
	metadataQuantity = "quantity"
)

type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeGateway struct {
	sessions      sessionCreator
	webhookSecret string
	logger        *zap.Logger
}

func NewStripeGateway(secretKey, webhookSecret string, logger *zap.Logger) *StripeGateway {
	sc := client.New(secretKey, nil)
	return &StripeGateway{
		sessions:      sc.CheckoutSessions,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateCheckoutSession opens a hosted checkout for a monthly subscription of
// req.Quantity units. The order id travels in the session metadata, the
// subscription metadata and the client reference so any later event can be
// correlated back to the order.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req dto.CheckoutSessionRequest) (*dto.CheckoutSession, error) {
	params := buildSessionParams(req)
	params.Context = ctx

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	g.logger.Debug("checkout session created", zap.String("orderId", req.OrderID), zap.String("sessionId", s.ID))

	return &dto.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func buildSessionParams(req dto.CheckoutSessionRequest) *stripe.CheckoutSessionParams {
	currency := req.Currency
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	name := req.ModelName
	if name == "" {
		name = req.Model
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.OrderID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s - Cloud Phone Service", name)),
						Description: stripe.String(fmt.Sprintf("Pre-configured %s with cloud phone service. %d phone(s).", name, req.Quantity)),
					},
					UnitAmount: stripe.Int64(toMinorUnits(req)),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
					},
				},
				Quantity: stripe.Int64(int64(req.Quantity)),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{metadataOrderID: req.OrderID},
		},
	}
	params.AddMetadata(metadataOrderID, req.OrderID)
	params.AddMetadata(metadataModel, req.Model)
	params.AddMetadata(metadataQuantity, strconv.Itoa(req.Quantity))

	return params
}

func toMinorUnits(req dto.CheckoutSessionRequest) int64 {
	return req.UnitPrice.Shift(2).Round(0).IntPart()
}

// ParseEvent verifies the signature header against the webhook secret and
// extracts the fields of the event types the store reacts to.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*dto.PaymentEvent, error) {
	if signature == "" {
		return nil, apperrors.NewSignatureError("missing signature", nil)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, apperrors.NewSignatureError("invalid signature", err)
	}

	out := &dto.PaymentEvent{
		ID:   event.ID,
		Type: dto.PaymentEventType(event.Type),
	}

	switch out.Type {
	case dto.PaymentEventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, apperrors.NewValidationError("malformed checkout session payload")
		}
		out.OrderID = s.Metadata[metadataOrderID]
		out.SessionID = s.ID
		if s.Subscription != nil {
			out.SubscriptionID = s.Subscription.ID
		}
		out.CustomerEmail = s.CustomerEmail
		if s.CustomerDetails != nil && s.CustomerDetails.Email != "" {
			out.CustomerEmail = s.CustomerDetails.Email
		}

	case dto.PaymentEventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, apperrors.NewValidationError("malformed subscription payload")
		}
		out.SubscriptionID = sub.ID
		out.OrderID = sub.Metadata[metadataOrderID]
	}

	return out, nil
}
