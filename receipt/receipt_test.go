package receipt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParticipant(t *testing.T, name string) Participant {
	t.Helper()

	qr, err := QRCodePNG(CheckInURL("https://igrejasv.com", "some-id", 0))
	require.NoError(t, err)

	return Participant{
		Name:          name,
		CPF:           "12345678901",
		ShirtSize:     "M",
		ModalityLabel: "Corrida 5km",
		QRCode:        qr,
	}
}

func TestCheckInURL(t *testing.T) {
	assert.Equal(t,
		"https://igrejasv.com/ingresso/run/abc-123?p=2",
		CheckInURL("https://igrejasv.com", "abc-123", 2),
	)
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("https://igrejasv.com/ingresso/run/abc?p=0")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestRender(t *testing.T) {
	t.Run("no participants", func(t *testing.T) {
		_, err := Render(Receipt{ContactEmail: "test@test.com"})
		assert.Error(t, err)
	})

	t.Run("participant without QR code", func(t *testing.T) {
		p := testParticipant(t, "Ana Silva")
		p.QRCode = nil
		_, err := Render(Receipt{ContactEmail: "test@test.com", People: []Participant{p}})
		assert.Error(t, err)
	})

	t.Run("renders a PDF", func(t *testing.T) {
		pdf, err := Render(Receipt{
			ContactEmail: "contato@test.com",
			People:       []Participant{testParticipant(t, "Ana Silva")},
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	})

	t.Run("one page per participant", func(t *testing.T) {
		onePage, err := Render(Receipt{
			ContactEmail: "contato@test.com",
			People:       []Participant{testParticipant(t, "Ana Silva")},
		})
		require.NoError(t, err)

		twoPages, err := Render(Receipt{
			ContactEmail: "contato@test.com",
			People:       []Participant{testParticipant(t, "Ana Silva"), testParticipant(t, "João Souza")},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, bytes.Count(onePage, []byte("/Type /Page\n")))
		assert.Equal(t, 2, bytes.Count(twoPages, []byte("/Type /Page\n")))
	})
}
