// Package pdf renders shipment receipts with go-pdf/fpdf.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/dmlogistics/portal/internal/api/metrics"
	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

const (
	pageMargin   = 15.0
	columnGap    = 10.0
	lineHeight   = 5.0
	labelHeight  = 6.0
	footerOffset = 18.0
	notAvailable = "N/A"
	dateLayout   = "January 2, 2006"
)

var pdfSignature = []byte("%PDF")

var errInvalidOutput = errors.New("output is empty or lacks the %PDF signature")

// Options configures the receipt text.
type Options struct {
	CompanyName string
	SiteURL     string
}

// Generator implements ports.ReceiptGenerator.
type Generator struct {
	opts   Options
	now    func() time.Time
	encode func(doc *fpdf.Fpdf, compressed bool) ([]byte, error)
	logger zerolog.Logger
}

var _ ports.ReceiptGenerator = (*Generator)(nil)

func NewGenerator(opts Options, logger zerolog.Logger) *Generator {
	if strings.TrimSpace(opts.CompanyName) == "" {
		opts.CompanyName = "DM Logistics"
	}
	return &Generator{
		opts:   opts,
		now:    time.Now,
		encode: encodeDocument,
		logger: logger,
	}
}

// Generate renders s as a PDF. The document is first written compressed; if
// that yields nothing usable it is rendered again uncompressed. When both
// attempts fail the returned error wraps domain.ErrReceiptEncoding and carries
// the first attempt's cause.
func (g *Generator) Generate(s domain.ShipmentRecord) ([]byte, error) {
	data, err := g.render(s, true)
	if err == nil && validPDF(data) {
		metrics.ReceiptsGeneratedTotal.WithLabelValues("primary").Inc()
		return data, nil
	}
	primary := err
	if primary == nil {
		primary = errInvalidOutput
	}
	g.logger.Warn().Err(primary).Str("tracking_number", s.TrackingNumber).Msg("compressed receipt unusable, retrying uncompressed")

	data, err = g.render(s, false)
	if err == nil && validPDF(data) {
		metrics.ReceiptsGeneratedTotal.WithLabelValues("fallback").Inc()
		return data, nil
	}

	metrics.ReceiptsGeneratedTotal.WithLabelValues("failed").Inc()
	g.logger.Error().Err(primary).AnErr("fallback_error", err).Str("tracking_number", s.TrackingNumber).Msg("receipt encoding failed")
	return nil, fmt.Errorf("%w: %v", domain.ErrReceiptEncoding, primary)
}

func validPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfSignature)
}

func encodeDocument(doc *fpdf.Fpdf, _ bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) render(s domain.ShipmentRecord, compressed bool) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(compressed)
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, footerOffset+pageMargin)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	id := orNA(s.TrackingNumber)
	doc.SetTitle("Shipment receipt "+id, true)
	doc.SetAuthor(g.opts.CompanyName, true)
	doc.SetCreator("DM Logistics portal", true)

	doc.SetFooterFunc(func() {
		doc.SetY(-footerOffset)
		doc.SetDrawColor(200, 200, 200)
		pageW, _ := doc.GetPageSize()
		doc.Line(pageMargin, doc.GetY(), pageW-pageMargin, doc.GetY())
		doc.Ln(2)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(120, 120, 120)
		doc.CellFormat(0, 4, tr(g.footerText()), "", 1, "C", false, 0, "")
		doc.CellFormat(0, 4, fmt.Sprintf("Page %d", doc.PageNo()), "", 0, "C", false, 0, "")
	})

	doc.AddPage()
	g.titleBlock(doc, tr, s, id)
	tableY := g.partyBlocks(doc, tr, s)
	g.detailsTable(doc, tr, s, tableY)
	g.extraLines(doc, tr, s)

	if doc.Err() {
		return nil, doc.Error()
	}
	return g.encode(doc, compressed)
}

func (g *Generator) titleBlock(doc *fpdf.Fpdf, tr func(string) string, s domain.ShipmentRecord, id string) {
	doc.SetTextColor(20, 40, 90)
	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 10, tr(g.opts.CompanyName), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 13)
	doc.SetTextColor(60, 60, 60)
	doc.CellFormat(0, 7, "Shipment Receipt", "", 1, "C", false, 0, "")
	doc.Ln(4)

	issued := s.RegisteredAt
	if issued.IsZero() {
		issued = g.now()
	}
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	half := contentWidth(doc) / 2
	doc.CellFormat(half, lineHeight, tr("Receipt No: "+id), "", 0, "L", false, 0, "")
	doc.CellFormat(half, lineHeight, "Date: "+issued.Format(dateLayout), "", 1, "R", false, 0, "")
	doc.Ln(3)
}

// partyBlocks draws sender and receiver side by side and returns the Y
// coordinate below the taller of the two.
func (g *Generator) partyBlocks(doc *fpdf.Fpdf, tr func(string) string, s domain.ShipmentRecord) float64 {
	colW := (contentWidth(doc) - columnGap) / 2
	top := doc.GetY()

	leftEnd := partyBlock(doc, tr, "Sender", s.Sender, pageMargin, top, colW)
	rightEnd := partyBlock(doc, tr, "Receiver", s.Receiver, pageMargin+colW+columnGap, top, colW)

	return max(leftEnd, rightEnd) + 6
}

func partyBlock(doc *fpdf.Fpdf, tr func(string) string, title string, p domain.Party, x, y, w float64) float64 {
	doc.SetXY(x, y)
	doc.SetFont("Helvetica", "B", 11)
	doc.SetFillColor(235, 240, 248)
	doc.CellFormat(w, labelHeight, title, "", 2, "L", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, line := range []string{orNA(p.Name), orNA(p.Email), orNA(p.Phone)} {
		doc.SetX(x)
		doc.CellFormat(w, lineHeight, tr(line), "", 2, "L", false, 0, "")
	}

	address := WrapText(strings.TrimSpace(p.Address), AddressWrapWidth)
	if len(address) == 0 {
		address = []string{notAvailable}
	}
	for _, line := range address {
		doc.SetX(x)
		doc.CellFormat(w, lineHeight, tr(line), "", 2, "L", false, 0, "")
	}
	return doc.GetY()
}

func (g *Generator) detailsTable(doc *fpdf.Fpdf, tr func(string) string, s domain.ShipmentRecord, y float64) {
	doc.SetXY(pageMargin, y)
	colW := contentWidth(doc) / 4

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(20, 40, 90)
	doc.SetTextColor(255, 255, 255)
	for _, h := range []string{"Package Type", "Weight", "Status", "Cost"} {
		doc.CellFormat(colW, 8, h, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	row := []string{
		orNA(s.Package.Type),
		formatWeight(s.Package.Weight, s.Package.WeightUnit),
		orNA(s.Status),
		fmt.Sprintf("$%.2f", s.Cost),
	}
	for _, v := range row {
		doc.CellFormat(colW, 8, tr(v), "1", 0, "C", false, 0, "")
	}
	doc.Ln(12)
}

func (g *Generator) extraLines(doc *fpdf.Fpdf, tr func(string) string, s domain.ShipmentRecord) {
	doc.SetFont("Helvetica", "", 10)
	if s.EstimatedDelivery != nil && !s.EstimatedDelivery.IsZero() {
		doc.CellFormat(0, lineHeight+1, "Estimated delivery: "+s.EstimatedDelivery.Format(dateLayout), "", 1, "L", false, 0, "")
	}
	if strings.TrimSpace(s.OriginCountry) != "" || strings.TrimSpace(s.DestinationCountry) != "" {
		route := fmt.Sprintf("Route: %s to %s", orNA(s.OriginCountry), orNA(s.DestinationCountry))
		doc.CellFormat(0, lineHeight+1, tr(route), "", 1, "L", false, 0, "")
	}
}

func (g *Generator) footerText() string {
	text := "Thank you for shipping with " + g.opts.CompanyName + "."
	if site := strings.TrimRight(strings.TrimSpace(g.opts.SiteURL), "/"); site != "" {
		text += " Track your shipment at " + site + "/track"
	}
	return text
}

func contentWidth(doc *fpdf.Fpdf) float64 {
	pageW, _ := doc.GetPageSize()
	return pageW - 2*pageMargin
}

func formatWeight(weight float64, unit string) string {
	return strings.TrimSpace(fmt.Sprintf("%.2f %s", weight, strings.TrimSpace(unit)))
}

func orNA(s string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return notAvailable
}
