// Package mercadopago adapts the official Mercado Pago SDK to the payments
// interfaces. It owns the provider-specific plumbing: back URLs, the webhook
// callback URL, and the int payment ids the provider uses.
package mercadopago

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/samuelfgs/isv-run/payments"
)

var _ payments.Provider = &Client{}

type Client struct {
	preferenceClient preference.Client
	paymentClient    payment.Client
	publicBaseURL    string
}

// NewClient builds an authenticated client. publicBaseURL is the site root
// the provider redirects back to and notifies (no trailing slash needed).
func NewClient(accessToken, publicBaseURL string) (*Client, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create mercado pago config: %w", err)
	}

	return &Client{
		preferenceClient: preference.NewClient(cfg),
		paymentClient:    payment.NewClient(cfg),
		publicBaseURL:    strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (c *Client) CreatePreference(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:          "0",
				Title:       params.Title,
				Description: params.Description,
				Quantity:    params.Quantity,
				CurrencyID:  params.UnitPrice.Currency().Code,
				UnitPrice:   params.UnitPrice.AsMajorUnits(),
			},
		},
		Payer: &preference.PayerRequest{
			Name:  params.PayerName,
			Email: params.PayerEmail,
		},
		ExternalReference: params.ExternalReference,
		BackURLs: &preference.BackURLsRequest{
			Success: c.publicBaseURL + "/success",
			Failure: c.publicBaseURL + "/",
			Pending: c.publicBaseURL + "/",
		},
		AutoReturn:      "approved",
		NotificationURL: c.publicBaseURL + "/api/mercadopago/webhook/",
	}

	resp, err := c.preferenceClient.Create(ctx, req)
	if err != nil {
		return payments.Preference{}, fmt.Errorf("failed to create preference: %w", err)
	}

	return payments.Preference{
		ID:        resp.ID,
		InitPoint: resp.InitPoint,
	}, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (payments.Payment, error) {
	paymentID, err := strconv.Atoi(id)
	if err != nil {
		return payments.Payment{}, fmt.Errorf("payment id %q is not numeric: %w", id, err)
	}

	resp, err := c.paymentClient.Get(ctx, paymentID)
	if err != nil {
		return payments.Payment{}, fmt.Errorf("failed to fetch payment %d: %w", paymentID, err)
	}

	return payments.Payment{
		ID:                strconv.Itoa(resp.ID),
		Status:            payments.Status(resp.Status),
		ExternalReference: resp.ExternalReference,
	}, nil
}
