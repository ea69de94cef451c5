// Package payments defines the provider-neutral contract the registration
// flow depends on. The Mercado Pago implementation lives in the mercadopago
// subpackage; tests use hand-written fakes.
package payments

import (
	"context"

	"github.com/Rhymond/go-money"
)

type Status string

const (
	StatusApproved  Status = "approved"
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// PreferenceParams carries everything the provider needs to build a checkout
// for one registration batch. Back URLs and the webhook callback are owned by
// the provider adapter, not the caller.
type PreferenceParams struct {
	ExternalReference string
	Title             string
	Description       string
	Quantity          int
	UnitPrice         *money.Money
	PayerName         string
	PayerEmail        string
}

type Preference struct {
	ID        string
	InitPoint string
}

type Payment struct {
	ID                string
	Status            Status
	ExternalReference string
}

type PreferenceCreator interface {
	CreatePreference(ctx context.Context, params PreferenceParams) (Preference, error)
}

type PaymentGetter interface {
	GetPayment(ctx context.Context, id string) (Payment, error)
}

// Provider is what the HTTP layer is wired with.
type Provider interface {
	PreferenceCreator
	PaymentGetter
}
