package registration

import (
	"context"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/samuelfgs/isv-run/payments"
	"github.com/samuelfgs/isv-run/slices"
)

type Modality string

const (
	ModalityRun  Modality = "run"
	ModalityWalk Modality = "walk"
)

// Label is the user-facing Portuguese name of the modality.
func (m Modality) Label() string {
	if m == ModalityRun {
		return "Corrida 5km"
	}
	return "Caminhada 5km"
}

type Participant struct {
	Name      string   `json:"nome"`
	CPF       string   `json:"cpf"`
	BirthDate string   `json:"dataNascimento"`
	Gender    string   `json:"gender"`
	ShirtSize string   `json:"shirtSize"`
	Modality  Modality `json:"modalidade"`
}

// Metadata is the structured blob persisted alongside the registration row.
// Prices are in centavos.
type Metadata struct {
	People              []Participant `json:"people"`
	Price               int64         `json:"price"`
	TotalQuantity       int           `json:"totalQuantity"`
	TotalPrice          int64         `json:"totalPrice"`
	RunCount            int           `json:"runCount"`
	WalkCount           int           `json:"walkCount"`
	ModalityDescription string        `json:"modalidadeDescription"`
	InitPoint           string        `json:"init_point"`
}

// Registration is the only persisted entity: one row per submission batch,
// however many participants it carries. MercadoPagoID is the correlation id
// used as the provider's external reference; it never changes after creation.
type Registration struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"nome"`
	CPF           string    `json:"cpf"`
	Email         string    `json:"email"`
	MercadoPagoID string    `json:"mercado_pago_id"`
	EmailSent     bool      `json:"email_sent"`
	Metadata      Metadata  `json:"metadata"`
}

type GetRegistrationsResponse struct {
	Data        []Registration
	Cursor      *string
	HasNextPage bool
}

type Repository interface {
	CreateRegistration(ctx context.Context, reg Registration) error
	GetRegistration(ctx context.Context, id uuid.UUID) (Registration, error)
	GetRegistrationByReference(ctx context.Context, mercadoPagoID string) (Registration, error)
	// MarkEmailSent flips email_sent false->true. It must be conditional on the
	// current value being false and report EMAIL_ALREADY_SENT otherwise, so two
	// racing webhook deliveries cannot both claim the send.
	MarkEmailSent(ctx context.Context, id uuid.UUID) error
	GetRegistrations(ctx context.Context, limit int32, cursor *string) (GetRegistrationsResponse, error)
}

type SubmitRequest struct {
	Email  string        `json:"email"`
	People []Participant `json:"people"`
}

// Submit validates a batch, creates the payment preference, and persists the
// registration with email_sent=false. The record is only written after the
// provider call succeeds; a failed write leaves an orphaned preference behind,
// which is accepted.
func Submit(ctx context.Context, req SubmitRequest, unitPrice *money.Money, creator payments.PreferenceCreator, repo Repository) (Registration, error) {
	if err := validateSubmitRequest(req); err != nil {
		return Registration{}, err
	}

	totalQuantity := len(req.People)
	runCount := len(slices.Filter(req.People, func(p Participant) bool { return p.Modality == ModalityRun }))
	walkCount := totalQuantity - runCount
	summary := ModalitySummary(runCount, walkCount)

	totalPrice := unitPrice.Multiply(int64(totalQuantity))

	mercadoPagoID, err := newCorrelationID()
	if err != nil {
		return Registration{}, NewPreferenceCreationFailedError("Failed to generate correlation id", err)
	}

	pref, err := creator.CreatePreference(ctx, payments.PreferenceParams{
		ExternalReference: mercadoPagoID,
		Title:             fmt.Sprintf("ISV RUN - %s", summary),
		Description:       checkoutDescription(totalQuantity),
		Quantity:          totalQuantity,
		UnitPrice:         unitPrice,
		PayerName:         req.People[0].Name,
		PayerEmail:        req.Email,
	})
	if err != nil {
		return Registration{}, NewPreferenceCreationFailedError("Failed to create payment preference", err)
	}

	reg := Registration{
		ID:            uuid.New(),
		Name:          req.People[0].Name,
		CPF:           req.People[0].CPF,
		Email:         req.Email,
		MercadoPagoID: mercadoPagoID,
		EmailSent:     false,
		Metadata: Metadata{
			People:              req.People,
			Price:               unitPrice.Amount(),
			TotalQuantity:       totalQuantity,
			TotalPrice:          totalPrice.Amount(),
			RunCount:            runCount,
			WalkCount:           walkCount,
			ModalityDescription: summary,
			InitPoint:           pref.InitPoint,
		},
	}

	if err := repo.CreateRegistration(ctx, reg); err != nil {
		return Registration{}, err
	}

	return reg, nil
}

func validateSubmitRequest(req SubmitRequest) error {
	if req.Email == "" || len(req.People) == 0 {
		return NewMissingFieldsError("Campos obrigatórios faltando")
	}

	for i, p := range req.People {
		if p.Name == "" || p.CPF == "" || p.BirthDate == "" || p.Gender == "" || p.ShirtSize == "" || p.Modality == "" {
			return NewMissingFieldsError(fmt.Sprintf("Dados incompletos para o participante %d", i+1))
		}
		if !ValidateCPF(p.CPF) {
			return NewInvalidParticipantError(fmt.Sprintf("CPF inválido para o participante %d", i+1))
		}
		if err := ValidateBirthDate(p.BirthDate); err != nil {
			return NewInvalidParticipantError(fmt.Sprintf("Data de nascimento inválida para o participante %d: %s", i+1, err))
		}
		if p.Modality != ModalityRun && p.Modality != ModalityWalk {
			return NewInvalidParticipantError(fmt.Sprintf("Modalidade desconhecida para o participante %d", i+1))
		}
	}

	return nil
}

// ModalitySummary is the human readable breakdown used in the checkout item
// and the persisted metadata.
func ModalitySummary(runCount, walkCount int) string {
	switch {
	case runCount > 0 && walkCount > 0:
		return fmt.Sprintf("%d Corrida, %d Caminhada", runCount, walkCount)
	case runCount > 0:
		return "Corrida 5km"
	default:
		return "Caminhada 5km"
	}
}

func checkoutDescription(totalQuantity int) string {
	noun := "pessoas"
	if totalQuantity == 1 {
		noun = "pessoa"
	}
	return fmt.Sprintf("Inscrição para %d %s - ISV RUN - Igreja em São Vicente - 07 de Fevereiro", totalQuantity, noun)
}

// newCorrelationID concatenates two nanoids. No uniqueness check against the
// datastore; the generator's collision probability is relied on, matching the
// create-uniqueness condition on the table as a backstop.
func newCorrelationID() (string, error) {
	a, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	b, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return a + b, nil
}
