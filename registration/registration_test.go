package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfgs/isv-run/payments"
)

type mockRepository struct {
	CreateRegistrationFunc         func(ctx context.Context, reg Registration) error
	GetRegistrationFunc            func(ctx context.Context, id uuid.UUID) (Registration, error)
	GetRegistrationByReferenceFunc func(ctx context.Context, mercadoPagoID string) (Registration, error)
	MarkEmailSentFunc              func(ctx context.Context, id uuid.UUID) error
	GetRegistrationsFunc           func(ctx context.Context, limit int32, cursor *string) (GetRegistrationsResponse, error)
}

func (m *mockRepository) CreateRegistration(ctx context.Context, reg Registration) error {
	return m.CreateRegistrationFunc(ctx, reg)
}

func (m *mockRepository) GetRegistration(ctx context.Context, id uuid.UUID) (Registration, error) {
	return m.GetRegistrationFunc(ctx, id)
}

func (m *mockRepository) GetRegistrationByReference(ctx context.Context, mercadoPagoID string) (Registration, error) {
	return m.GetRegistrationByReferenceFunc(ctx, mercadoPagoID)
}

func (m *mockRepository) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	return m.MarkEmailSentFunc(ctx, id)
}

func (m *mockRepository) GetRegistrations(ctx context.Context, limit int32, cursor *string) (GetRegistrationsResponse, error) {
	return m.GetRegistrationsFunc(ctx, limit, cursor)
}

type mockPreferenceCreator struct {
	CreatePreferenceFunc func(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error)
}

func (m *mockPreferenceCreator) CreatePreference(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error) {
	return m.CreatePreferenceFunc(ctx, params)
}

func validParticipant() Participant {
	return Participant{
		Name:      "Ana Silva",
		CPF:       "12345678901",
		BirthDate: "20/03/1990",
		Gender:    "feminino",
		ShirtSize: "M",
		Modality:  ModalityRun,
	}
}

func TestSubmit(t *testing.T) {
	unitPrice := money.New(6000, money.BRL)

	t.Run("persists registration and returns preference link", func(t *testing.T) {
		walker := validParticipant()
		walker.Name = "Bruno Souza"
		walker.Modality = ModalityWalk

		var created Registration
		var gotParams payments.PreferenceParams

		repo := &mockRepository{
			CreateRegistrationFunc: func(ctx context.Context, reg Registration) error {
				created = reg
				return nil
			},
		}
		creator := &mockPreferenceCreator{
			CreatePreferenceFunc: func(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error) {
				gotParams = params
				return payments.Preference{ID: "pref-1", InitPoint: "https://mp.example/init"}, nil
			},
		}

		reg, err := Submit(context.Background(), SubmitRequest{
			Email:  "ana@example.com",
			People: []Participant{validParticipant(), walker},
		}, unitPrice, creator, repo)
		require.NoError(t, err)

		assert.Equal(t, created, reg)
		assert.NotEqual(t, uuid.Nil, reg.ID)
		assert.Equal(t, "Ana Silva", reg.Name)
		assert.Equal(t, "12345678901", reg.CPF)
		assert.Equal(t, "ana@example.com", reg.Email)
		assert.False(t, reg.EmailSent)
		assert.NotEmpty(t, reg.MercadoPagoID)

		assert.Equal(t, 2, reg.Metadata.TotalQuantity)
		assert.Equal(t, 1, reg.Metadata.RunCount)
		assert.Equal(t, 1, reg.Metadata.WalkCount)
		assert.Equal(t, int64(6000), reg.Metadata.Price)
		assert.Equal(t, int64(12000), reg.Metadata.TotalPrice)
		assert.Equal(t, "1 Corrida, 1 Caminhada", reg.Metadata.ModalityDescription)
		assert.Equal(t, "https://mp.example/init", reg.Metadata.InitPoint)

		assert.Equal(t, reg.MercadoPagoID, gotParams.ExternalReference)
		assert.Equal(t, "ISV RUN - 1 Corrida, 1 Caminhada", gotParams.Title)
		assert.Equal(t, "Inscrição para 2 pessoas - ISV RUN - Igreja em São Vicente - 07 de Fevereiro", gotParams.Description)
		assert.Equal(t, 2, gotParams.Quantity)
		assert.Equal(t, "Ana Silva", gotParams.PayerName)
		assert.Equal(t, "ana@example.com", gotParams.PayerEmail)
	})

	t.Run("single participant description uses singular", func(t *testing.T) {
		var gotParams payments.PreferenceParams

		repo := &mockRepository{
			CreateRegistrationFunc: func(ctx context.Context, reg Registration) error { return nil },
		}
		creator := &mockPreferenceCreator{
			CreatePreferenceFunc: func(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error) {
				gotParams = params
				return payments.Preference{ID: "pref-1", InitPoint: "https://mp.example/init"}, nil
			},
		}

		_, err := Submit(context.Background(), SubmitRequest{
			Email:  "ana@example.com",
			People: []Participant{validParticipant()},
		}, unitPrice, creator, repo)
		require.NoError(t, err)

		assert.Equal(t, "Inscrição para 1 pessoa - ISV RUN - Igreja em São Vicente - 07 de Fevereiro", gotParams.Description)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := Submit(context.Background(), SubmitRequest{
			People: []Participant{validParticipant()},
		}, unitPrice, nil, nil)

		var regErr *Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, REASON_MISSING_FIELDS, regErr.Reason)
	})

	t.Run("empty people", func(t *testing.T) {
		_, err := Submit(context.Background(), SubmitRequest{
			Email: "ana@example.com",
		}, unitPrice, nil, nil)

		var regErr *Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, REASON_MISSING_FIELDS, regErr.Reason)
	})

	t.Run("participant with blank field", func(t *testing.T) {
		p := validParticipant()
		p.ShirtSize = ""

		_, err := Submit(context.Background(), SubmitRequest{
			Email:  "ana@example.com",
			People: []Participant{p},
		}, unitPrice, nil, nil)

		var regErr *Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, REASON_MISSING_FIELDS, regErr.Reason)
		assert.Equal(t, "Dados incompletos para o participante 1", regErr.Message)
	})

	t.Run("invalid cpf", func(t *testing.T) {
		p := validParticipant()
		p.CPF = "123"

		_, err := Submit(context.Background(), SubmitRequest{
			Email:  "ana@example.com",
			People: []Participant{p},
		}, unitPrice, nil, nil)

		var regErr *Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, REASON_INVALID_PARTICIPANT, regErr.Reason)
	})

	t.Run("invalid birth date", func(t *testing.T) {
		p := validParticipant()
		p.BirthDate = "31/02/2000"

		_, err := Submit(context.Background(), SubmitRequest{
			Email:  "ana@example.com",
			People: []Participant{p},
		}, unitPrice, nil, nil)

		var regErr *Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, REASON_INVALID_PARTICIPANT, regErr.Reason)
	})

	t.Run("unknown modality", func(t *testing.T) {
		p := validParticipant()
		p.Modality = "swim"

		_, err := Submit(context.Background(), SubmitRequest{
			Email:  "ana@example.com",
			People: []Participant{p},
		}, unitPrice, nil, nil)

		var regErr *Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, REASON_INVALID_PARTICIPANT, regErr.Reason)
	})

	t.Run("preference creation failure skips persistence", func(t *testing.T) {
		createCalled := false

		repo := &mockRepository{
			CreateRegistrationFunc: func(ctx context.Context, reg Registration) error {
				createCalled = true
				return nil
			},
		}
		creator := &mockPreferenceCreator{
			CreatePreferenceFunc: func(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error) {
				return payments.Preference{}, errors.New("mp is down")
			},
		}

		_, err := Submit(context.Background(), SubmitRequest{
			Email:  "ana@example.com",
			People: []Participant{validParticipant()},
		}, unitPrice, creator, repo)

		var regErr *Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, REASON_PREFERENCE_CREATION_FAILED, regErr.Reason)
		assert.False(t, createCalled)
	})

	t.Run("repository failure is passed through", func(t *testing.T) {
		repo := &mockRepository{
			CreateRegistrationFunc: func(ctx context.Context, reg Registration) error {
				return NewFailedToWriteError("Failed to write registration", errors.New("dynamo is down"))
			},
		}
		creator := &mockPreferenceCreator{
			CreatePreferenceFunc: func(ctx context.Context, params payments.PreferenceParams) (payments.Preference, error) {
				return payments.Preference{ID: "pref-1", InitPoint: "https://mp.example/init"}, nil
			},
		}

		_, err := Submit(context.Background(), SubmitRequest{
			Email:  "ana@example.com",
			People: []Participant{validParticipant()},
		}, unitPrice, creator, repo)

		var regErr *Error
		require.ErrorAs(t, err, &regErr)
		assert.Equal(t, REASON_FAILED_TO_WRITE, regErr.Reason)
	})
}

func TestModalitySummary(t *testing.T) {
	assert.Equal(t, "Corrida 5km", ModalitySummary(3, 0))
	assert.Equal(t, "Caminhada 5km", ModalitySummary(0, 2))
	assert.Equal(t, "2 Corrida, 1 Caminhada", ModalitySummary(2, 1))
}
