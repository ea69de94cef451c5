// Package receipt renders the registration receipt PDF: one A4 page per
// participant with the event details, masked contact data, and that
// participant's check-in QR code.
package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	eventName     = "ISV RUN 2026"
	organizerName = "Igreja em São Vicente"
	eventDate     = "07 de Fevereiro de 2026"
	eventTime     = "18:30"
	eventVenue    = "Canto do Ilha Porchat"
	eventCity     = "São Vicente"
)

type Participant struct {
	Name          string
	CPF           string
	ShirtSize     string
	ModalityLabel string
	QRCode        []byte // PNG
}

type Receipt struct {
	ContactEmail string
	People       []Participant
}

// Render produces the multi-page PDF. Fails if the receipt has no
// participants or a participant is missing a QR code.
func Render(r Receipt) ([]byte, error) {
	if len(r.People) == 0 {
		return nil, fmt.Errorf("receipt must have at least one participant")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Comprovante de Inscrição - "+eventName), true)

	for i, p := range r.People {
		if len(p.QRCode) == 0 {
			return nil, fmt.Errorf("participant %d has no QR code", i)
		}

		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 12, tr("Comprovante de Inscrição"), "", 1, "C", false, 0, "")
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, eventName, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(141, 141, 141)
		pdf.CellFormat(0, 6, tr(organizerName), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "", 13)
		pdf.CellFormat(0, 7, tr("Modalidade: "+p.ModalityLabel), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.CellFormat(0, 6, tr(eventDate), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, eventTime, "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(eventVenue), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(eventCity), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		pdf.SetTextColor(141, 141, 141)
		pdf.CellFormat(0, 6, "E-mail de Contato", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 6, MaskEmail(r.ContactEmail), "", 1, "L", false, 0, "")
		pdf.Ln(4)

		pdf.SetTextColor(141, 141, 141)
		pdf.CellFormat(0, 6, "Participante", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 7, tr(p.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, "CPF: "+MaskCPF(p.CPF), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr("Modalidade: "+p.ModalityLabel), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Tamanho da Camisa: "+p.ShirtSize, "", 1, "L", false, 0, "")
		pdf.Ln(6)

		imgName := fmt.Sprintf("qr-%d", i)
		pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(p.QRCode))
		// Centered, roughly the 150pt square the original rendered.
		pageWidth, _ := pdf.GetPageSize()
		qrSize := 55.0
		pdf.ImageOptions(imgName, (pageWidth-qrSize)/2, pdf.GetY(), qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}

	return buf.Bytes(), nil
}
