package api

import (
	"context"
	"log/slog"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"

	"github.com/samuelfgs/isv-run/email"
	"github.com/samuelfgs/isv-run/payments"
	"github.com/samuelfgs/isv-run/registration"
)

type mockDB struct {
	CreateRegistrationFunc         func(ctx context.Context, reg registration.Registration) error
	GetRegistrationFunc            func(ctx context.Context, id uuid.UUID) (registration.Registration, error)
	GetRegistrationByReferenceFunc func(ctx context.Context, mercadoPagoID string) (registration.Registration, error)
	MarkEmailSentFunc              func(ctx context.Context, id uuid.UUID) error
	GetRegistrationsFunc           func(ctx context.Context, limit int32, cursor *string) (registration.GetRegistrationsResponse, error)
}

func (m *mockDB) CreateRegistration(ctx context.Context, reg registration.Registration) error {
	return m.CreateRegistrationFunc(ctx, reg)
}

func (m *mockDB) GetRegistration(ctx context.Context, id uuid.UUID) (registration.Registration, error) {
	return m.GetRegistrationFunc(ctx, id)
}

func (m *mockDB) GetRegistrationByReference(ctx context.Context, mercadoPagoID string) (registration.Registration, error) {
	return m.GetRegistrationByReferenceFunc(ctx, mercadoPagoID)
}

func (m *mockDB) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	return m.MarkEmailSentFunc(ctx, id)
}

func (m *mockDB) GetRegistrations(ctx context.Context, limit int32, cursor *string) (registration.GetRegistrationsResponse, error) {
	return m.GetRegistrationsFunc(ctx, limit, cursor)
}

type mockEmailSender struct {
	SendEmailFunc func(ctx context.Context, e email.Email) error
}

func (m *mockEmailSender) SendEmail(ctx context.Context, e email.Email) error {
	return m.SendEmailFunc(ctx, e)
}

type mockPaymentsProvider struct {
	CreatePreferenceFunc func(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error)
	GetPaymentFunc       func(ctx context.Context, id string) (payments.Payment, error)
}

func (m *mockPaymentsProvider) CreatePreference(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error) {
	return m.CreatePreferenceFunc(ctx, params)
}

func (m *mockPaymentsProvider) GetPayment(ctx context.Context, id string) (payments.Payment, error) {
	return m.GetPaymentFunc(ctx, id)
}

type testAPIOptions struct {
	db            *mockDB
	emailSender   *mockEmailSender
	payments      *mockPaymentsProvider
	webhookSecret string
}

func newTestAPI(opts testAPIOptions) *API {
	if opts.db == nil {
		opts.db = &mockDB{}
	}
	if opts.emailSender == nil {
		opts.emailSender = &mockEmailSender{
			SendEmailFunc: func(ctx context.Context, e email.Email) error { return nil },
		}
	}
	if opts.payments == nil {
		opts.payments = &mockPaymentsProvider{}
	}

	return NewAPI(
		opts.db,
		slog.New(slog.DiscardHandler),
		LOCAL,
		opts.emailSender,
		opts.payments,
		money.New(6000, money.BRL),
		"https://run.igrejasv.com",
		registration.ConfirmationEmailOptions{
			FromAddress:   "Igreja SV <contato@igrejasv.com>",
			PublicBaseURL: "https://run.igrejasv.com",
		},
		opts.webhookSecret,
	)
}
