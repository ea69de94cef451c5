package receipt

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// CheckInURL is what a participant's QR code encodes: the public check-in page
// for the registration, disambiguated by the participant's position in the
// batch.
func CheckInURL(publicBaseURL, registrationID string, participantIndex int) string {
	return fmt.Sprintf("%s/ingresso/run/%s?p=%d", publicBaseURL, registrationID, participantIndex)
}

// QRCodePNG renders a check-in URL as a PNG suitable for both the PDF receipt
// and the success page.
func QRCodePNG(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
