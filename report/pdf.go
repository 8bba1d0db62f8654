/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/humaidq/pulse/db"
)

// compressPDF is disabled in tests so page content can be inspected.
var compressPDF = true

const (
	pageMargin = 18.0
	lineHeight = 6.0
	fontFamily = "Helvetica"
)

// PatientReport is everything printed on a patient report.
type PatientReport struct {
	Patient  *db.Patient
	Visits   []db.Visit
	Business db.BusinessSettings
	Date     time.Time
}

// Customer is the billed party of an invoice.
type Customer struct {
	Name      string
	Address   string
	Telephone string
}

// CustomerFromPatient bills a stored patient.
func CustomerFromPatient(p *db.Patient) Customer {
	return Customer{Name: p.Name, Address: p.Address, Telephone: p.Telephone}
}

// Invoice is everything printed on an invoice.
type Invoice struct {
	Business db.BusinessSettings
	Customer Customer
	Items    []db.InvoiceItem
	Date     time.Time
	// QRCode is an optional PNG printed under the summary.
	QRCode []byte
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDocument(title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 25)
	pdf.SetCompression(compressPDF)
	pdf.SetTitle(title, true)
	pdf.SetCreator("pulse", true)

	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) text(style string, size float64, s string) {
	d.pdf.SetFont(fontFamily, style, size)
	d.pdf.CellFormat(0, lineHeight, d.tr(s), "", 1, "L", false, 0, "")
}

// image registers and draws an image. Failures are logged and skipped so a
// broken photo never prevents a report.
func (d *document) image(name string, img Image, x, y, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: img.Type}

	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if d.pdf.Err() {
		logger.Warn("Skipping unreadable image", "image", name, "error", d.pdf.Error())
		d.pdf.ClearError()
		return
	}

	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

func (d *document) dataURLImage(name, dataURL string, x, y, w, h float64) {
	img, err := DecodeDataURL(dataURL)
	if err != nil {
		logger.Warn("Skipping image", "image", name, "error", err)
		return
	}

	d.image(name, img, x, y, w, h)
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}

// WritePatientReport renders a one page A4 patient report.
func WritePatientReport(w io.Writer, r PatientReport) error {
	p := r.Patient
	if p == nil {
		return ErrNoPatient
	}

	m := p.Metrics()
	doc := newDocument("Patient report " + p.FileUID)
	pdf := doc.pdf

	footer := fmt.Sprintf("%s, %s, %s | %s", r.Business.Name, r.Business.Address, r.Business.Phone, r.Business.Email)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "B", 9)
		pdf.CellFormat(0, 5, doc.tr(footer), "", 0, "L", false, 0, "")
	})

	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()

	doc.text("B", 11, "PATIENT REPORT - FILE ID: "+p.FileUID)
	doc.text("B", 10, "Date: "+r.Date.Format("2006-01-02"))
	pdf.Line(pageMargin, pdf.GetY()+1, pageWidth-pageMargin, pdf.GetY()+1)
	pdf.Ln(4)

	if p.Photo != nil {
		doc.dataURLImage("photo", *p.Photo, pageWidth-pageMargin-35, pageMargin+16, 35, 35)
	}
	if r.Business.Logo != nil {
		doc.dataURLImage("logo", *r.Business.Logo, pageWidth-pageMargin-30, 240, 30, 30)
	}

	lastMenses := p.LastMensesDisplay()
	fields := [][2]string{
		{"Name", p.Name},
		{"Birth Date", p.BirthDateDisplay()},
		{"Age", strconv.Itoa(m.Age)},
		{"Weight", formatNumber(p.WeightKg) + " kg"},
		{"Height", formatNumber(p.HeightM) + " m"},
		{"BMI", m.BMIDisplay()},
		{"Weight Status", m.WeightStatusDisplay()},
		{"Ideal Body Weight", m.IdealBodyWeightDisplay()},
		{"Systolic BP", strconv.Itoa(p.SystolicBP) + " mmHg"},
		{"Diastolic BP", strconv.Itoa(p.DiastolicBP) + " mmHg"},
		{"Pulse", strconv.Itoa(p.Pulse) + " bpm"},
		{"Temperature", formatNumber(p.TemperatureC) + " °C"},
		{"Gender", string(p.Gender)},
		{"Last Menses", lastMenses},
		{"Address", p.Address},
		{"Email", p.Email},
		{"Profession", p.Profession},
		{"Telephone", p.Telephone},
		{"Marital Status", p.MaritalStatus},
		{"Alerts", m.AlertText()},
	}

	for _, f := range fields {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.CellFormat(45, lineHeight, doc.tr(f[0]+":"), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(0, lineHeight, doc.tr(f[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	doc.text("B", 10, "Observations:")
	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(0, 5, doc.tr(p.Observations), "", "L", false)

	if len(r.Visits) > 0 {
		pdf.Ln(4)
		doc.text("B", 10, "Visits")
		pdf.SetFont(fontFamily, "B", 9)
		pdf.SetFillColor(220, 230, 241)
		for _, h := range []struct {
			label string
			width float64
		}{{"Date", 25}, {"Reason", 70}, {"Diagnosis", 79}} {
			pdf.CellFormat(h.width, lineHeight, h.label, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(fontFamily, "", 9)
		for _, v := range r.Visits {
			pdf.CellFormat(25, lineHeight, v.VisitDateDisplay(), "1", 0, "L", false, 0, "")
			pdf.CellFormat(70, lineHeight, doc.tr(v.Reason), "1", 0, "L", false, 0, "")
			pdf.CellFormat(79, lineHeight, doc.tr(v.Diagnosis), "1", 1, "L", false, 0, "")
		}
	}

	if err := doc.output(w); err != nil {
		return err
	}

	logger.Info("Generated patient report", "file_uid", p.FileUID)

	return nil
}

// WriteInvoice renders an A4 invoice: business block, customer block, item
// table and a VAT summary.
func WriteInvoice(w io.Writer, inv Invoice) error {
	if len(inv.Items) == 0 {
		return ErrNoInvoiceItems
	}
	if missing := inv.Business.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrIncompleteBusiness, missing)
	}

	doc := newDocument("Invoice " + inv.Customer.Name)
	pdf := doc.pdf
	pdf.AddPage()

	if inv.Business.Logo != nil {
		doc.dataURLImage("logo", *inv.Business.Logo, pageMargin, pageMargin, 34, 34)
		pdf.SetY(pageMargin + 38)
	}

	doc.text("B", 11, inv.Business.Name)
	doc.text("", 10, inv.Business.Address)
	doc.text("", 10, "Phone: "+inv.Business.Phone)
	doc.text("", 10, "Email: "+inv.Business.Email)
	if inv.Business.TaxID != "" {
		doc.text("", 10, "Tax ID: "+inv.Business.TaxID)
	}
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
	doc.text("", 10, "Date: "+inv.Date.Format("02-01-2006"))
	pdf.Ln(4)

	doc.text("B", 10, "Customer Information")
	doc.text("", 10, "Name: "+inv.Customer.Name)
	doc.text("", 10, "Address: "+inv.Customer.Address)
	doc.text("", 10, "Telephone: "+inv.Customer.Telephone)
	pdf.Ln(4)

	columns := []struct {
		label string
		width float64
	}{{"Item", 76}, {"Qty", 20}, {"Unit Price", 39}, {"Total", 39}}

	pdf.SetFont(fontFamily, "B", 12)
	pdf.SetFillColor(173, 216, 230)
	pdf.SetTextColor(245, 245, 245)
	for _, c := range columns {
		pdf.CellFormat(c.width, 9, c.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range inv.Items {
		pdf.CellFormat(columns[0].width, lineHeight, doc.tr(item.Description), "1", 0, "C", true, 0, "")
		pdf.CellFormat(columns[1].width, lineHeight, strconv.Itoa(item.Quantity), "1", 0, "C", true, 0, "")
		pdf.CellFormat(columns[2].width, lineHeight, item.UnitPrice.StringFixed(2), "1", 0, "C", true, 0, "")
		pdf.CellFormat(columns[3].width, lineHeight, item.Total().StringFixed(2), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(4)

	s := Totals(inv.Items)
	doc.text("B", 10, "Summary")
	doc.text("", 10, "Subtotal: "+FormatAmount(s.Subtotal))
	doc.text("", 10, "VAT: "+VATLabel())
	doc.text("B", 10, "Total: "+FormatAmount(s.Total))

	if len(inv.QRCode) > 0 {
		doc.image("qr", Image{Type: "PNG", Data: inv.QRCode}, pageMargin, pdf.GetY()+4, 35, 35)
	}

	if err := doc.output(w); err != nil {
		return err
	}

	logger.Info("Generated invoice", "customer", inv.Customer.Name, "items", len(inv.Items), "total", s.Total.StringFixed(2))

	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
