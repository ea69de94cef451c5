package dynamo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfgs/isv-run/ptr"
	"github.com/samuelfgs/isv-run/registration"
)

func testRegistration() registration.Registration {
	id := uuid.New()
	return registration.Registration{
		ID:            id,
		Name:          "Ana Silva",
		CPF:           "12345678901",
		Email:         "ana@example.com",
		MercadoPagoID: "ref-" + id.String(),
		EmailSent:     false,
		Metadata: registration.Metadata{
			People: []registration.Participant{
				{
					Name:      "Ana Silva",
					CPF:       "12345678901",
					BirthDate: "01/01/2000",
					Gender:    "F",
					ShirtSize: "M",
					Modality:  registration.ModalityRun,
				},
			},
			Price:               6000,
			TotalQuantity:       1,
			TotalPrice:          6000,
			RunCount:            1,
			WalkCount:           0,
			ModalityDescription: "Corrida 5km",
			InitPoint:           "https://mercadopago.test/init",
		},
	}
}

func TestCreateAndGetRegistration(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips through the table", func(t *testing.T) {
		resetTable(ctx)
		reg := testRegistration()

		require.NoError(t, db.CreateRegistration(ctx, reg))

		got, err := db.GetRegistration(ctx, reg.ID)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(reg, got))
	})

	t.Run("fails to create the same registration twice", func(t *testing.T) {
		resetTable(ctx)
		reg := testRegistration()

		require.NoError(t, db.CreateRegistration(ctx, reg))

		err := db.CreateRegistration(ctx, reg)
		require.Error(t, err)
		var regErr *registration.Error
		require.True(t, errors.As(err, &regErr))
		assert.Equal(t, registration.REASON_REGISTRATION_ALREADY_EXISTS, regErr.Reason)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		resetTable(ctx)

		_, err := db.GetRegistration(ctx, uuid.New())
		require.Error(t, err)
		var regErr *registration.Error
		require.True(t, errors.As(err, &regErr))
		assert.Equal(t, registration.REASON_REGISTRATION_DOES_NOT_EXIST, regErr.Reason)
	})
}

func TestGetRegistrationByReference(t *testing.T) {
	ctx := context.Background()

	t.Run("finds by external reference", func(t *testing.T) {
		resetTable(ctx)
		reg := testRegistration()
		require.NoError(t, db.CreateRegistration(ctx, reg))

		got, err := db.GetRegistrationByReference(ctx, reg.MercadoPagoID)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(reg, got))
	})

	t.Run("unknown reference is not found", func(t *testing.T) {
		resetTable(ctx)

		_, err := db.GetRegistrationByReference(ctx, "no-such-ref")
		require.Error(t, err)
		var regErr *registration.Error
		require.True(t, errors.As(err, &regErr))
		assert.Equal(t, registration.REASON_REGISTRATION_DOES_NOT_EXIST, regErr.Reason)
	})
}

func TestMarkEmailSent(t *testing.T) {
	ctx := context.Background()

	t.Run("flips the flag exactly once", func(t *testing.T) {
		resetTable(ctx)
		reg := testRegistration()
		require.NoError(t, db.CreateRegistration(ctx, reg))

		require.NoError(t, db.MarkEmailSent(ctx, reg.ID))

		got, err := db.GetRegistration(ctx, reg.ID)
		require.NoError(t, err)
		assert.True(t, got.EmailSent)

		err = db.MarkEmailSent(ctx, reg.ID)
		require.Error(t, err)
		var regErr *registration.Error
		require.True(t, errors.As(err, &regErr))
		assert.Equal(t, registration.REASON_EMAIL_ALREADY_SENT, regErr.Reason)
	})
}

func TestGetRegistrations(t *testing.T) {
	ctx := context.Background()

	t.Run("paginates without overlap", func(t *testing.T) {
		resetTable(ctx)

		seen := map[string]bool{}
		for i := 0; i < 5; i++ {
			reg := testRegistration()
			reg.Name = fmt.Sprintf("Participante %d", i)
			require.NoError(t, db.CreateRegistration(ctx, reg))
		}

		page1, err := db.GetRegistrations(ctx, 3, nil)
		require.NoError(t, err)
		assert.Len(t, page1.Data, 3)
		assert.True(t, page1.HasNextPage)
		require.NotNil(t, page1.Cursor)

		page2, err := db.GetRegistrations(ctx, 3, page1.Cursor)
		require.NoError(t, err)
		assert.Len(t, page2.Data, 2)
		assert.False(t, page2.HasNextPage)

		for _, reg := range append(page1.Data, page2.Data...) {
			assert.False(t, seen[reg.ID.String()], "registration %s returned twice", reg.ID)
			seen[reg.ID.String()] = true
		}
		assert.Len(t, seen, 5)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		resetTable(ctx)

		_, err := db.GetRegistrations(ctx, 3, ptr.String("not-a-cursor"))
		require.Error(t, err)
		var regErr *registration.Error
		require.True(t, errors.As(err, &regErr))
		assert.Equal(t, registration.REASON_INVALID_CURSOR, regErr.Reason)
	})
}
