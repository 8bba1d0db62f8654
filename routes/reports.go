/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/flamego/flamego"
	"github.com/flamego/session"

	"github.com/humaidq/pulse/db"
	"github.com/humaidq/pulse/report"
)

var getBusinessSettingsFn = db.GetBusinessSettings

func writeDownload(c flamego.Context, contentType, disposition, filename string, body []byte) {
	headers := c.ResponseWriter().Header()
	headers.Set("Content-Type", contentType)
	headers.Set("Content-Disposition", disposition+"; filename=\""+filename+"\"")
	headers.Set("Content-Length", strconv.Itoa(len(body)))
	headers.Set("X-Content-Type-Options", "nosniff")

	c.ResponseWriter().WriteHeader(http.StatusOK)

	if _, err := c.ResponseWriter().Write(body); err != nil {
		logger.Error("Error writing download", "filename", filename, "error", err)
	}
}

// PatientQRCode serves the patient's QR card as a PNG.
func PatientQRCode(c flamego.Context) {
	patient, err := getPatientFn(c.Request().Context(), c.Param("id"))
	if err != nil {
		logger.Error("Error loading patient for QR code", "error", err)
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	png, err := report.PatientQRCode(report.CardFromPatient(patient))
	if err != nil {
		logger.Error("Error generating QR code", "error", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	writeDownload(c, "image/png", "inline", patient.FileUID+"_qr.png", png)
}

// DownloadPatientReport renders the patient report PDF.
func DownloadPatientReport(c flamego.Context, s session.Session) {
	id := c.Param("id")
	ctx := c.Request().Context()

	patient, err := getPatientFn(ctx, id)
	if err != nil {
		logger.Error("Error loading patient for report", "error", err)
		SetErrorFlash(s, "Patient not found")
		c.Redirect("/patients", http.StatusSeeOther)
		return
	}

	business, err := getBusinessSettingsFn(ctx)
	if err != nil {
		logger.Error("Error loading business settings", "error", err)
		SetErrorFlash(s, "Failed to load business settings")
		c.Redirect(patientURL(id), http.StatusSeeOther)
		return
	}

	visits, err := listVisitsFn(ctx, id)
	if err != nil {
		logger.Warn("Report generated without visits", "error", err)
	}

	now := nowFn()

	var buf bytes.Buffer
	if err := report.WritePatientReport(&buf, report.PatientReport{
		Patient:  patient,
		Visits:   visits,
		Business: *business,
		Date:     now,
	}); err != nil {
		logger.Error("Error generating report", "error", err)
		SetErrorFlash(s, "Failed to generate report")
		c.Redirect(patientURL(id), http.StatusSeeOther)
		return
	}

	writeDownload(c, "application/pdf", "attachment", report.ReportFileName(patient.FileUID, now), buf.Bytes())
}

// DownloadInvoice renders the invoice PDF of a visit.
func DownloadInvoice(c flamego.Context, s session.Session) {
	id := c.Param("id")
	ctx := c.Request().Context()
	back := visitURL(id)

	visit, err := getVisitFn(ctx, id)
	if err != nil {
		logger.Error("Error loading visit for invoice", "error", err)
		SetErrorFlash(s, "Visit not found")
		c.Redirect("/visits", http.StatusSeeOther)
		return
	}

	patient, err := getPatientFn(ctx, visit.PatientID.String())
	if err != nil {
		logger.Error("Error loading patient for invoice", "error", err)
		SetErrorFlash(s, "Patient not found")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	items, err := listInvoiceItemsFn(ctx, id)
	if err != nil {
		logger.Error("Error loading invoice items", "error", err)
		SetErrorFlash(s, "Failed to load invoice items")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	business, err := getBusinessSettingsFn(ctx)
	if err != nil {
		logger.Error("Error loading business settings", "error", err)
		SetErrorFlash(s, "Failed to load business settings")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	qr, err := report.PatientQRCode(report.CardFromPatient(patient))
	if err != nil {
		logger.Warn("Invoice generated without QR code", "error", err)
	}

	now := nowFn()

	var buf bytes.Buffer
	err = report.WriteInvoice(&buf, report.Invoice{
		Business: *business,
		Customer: report.CustomerFromPatient(patient),
		Items:    items,
		Date:     now,
		QRCode:   qr,
	})
	switch {
	case errors.Is(err, report.ErrNoInvoiceItems):
		SetErrorFlash(s, "Add at least one item before generating the invoice")
		c.Redirect(back, http.StatusSeeOther)
		return
	case errors.Is(err, report.ErrIncompleteBusiness):
		SetErrorFlash(s, "Please complete the business settings: "+strings.Join(business.MissingFields(), ", "))
		c.Redirect("/settings", http.StatusSeeOther)
		return
	case err != nil:
		logger.Error("Error generating invoice", "error", err)
		SetErrorFlash(s, "Failed to generate invoice")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	writeDownload(c, "application/pdf", "attachment", report.InvoiceFileName(patient.Name, now), buf.Bytes())
}

// DownloadPatientVCard serves the patient's contact details as a vCard.
func DownloadPatientVCard(c flamego.Context) {
	patient, err := getPatientFn(c.Request().Context(), c.Param("id"))
	if err != nil {
		logger.Error("Error loading patient for vcf", "error", err)
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
		return
	}

	vCardBytes, err := buildPatientVCard(patient)
	if err != nil {
		logger.Error("Error building vcf", "error", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	writeDownload(c, "text/vcard; charset=utf-8", "attachment", patient.FileUID+".vcf", vCardBytes)
}

func buildPatientVCard(p *db.Patient) ([]byte, error) {
	if p == nil {
		return nil, db.ErrPatientNotFound
	}

	card := make(vcard.Card)
	card.SetValue(vcard.FieldUID, p.ID.String())
	card.SetValue(vcard.FieldFormattedName, p.Name)

	given, family, _ := strings.Cut(strings.TrimSpace(p.Name), " ")
	card.AddName(&vcard.Name{
		GivenName:  given,
		FamilyName: strings.TrimSpace(family),
	})

	card.SetValue(vcard.FieldBirthday, p.BirthDate.Format("20060102"))
	card.SetValue(vcard.FieldNote, "File ID: "+p.FileUID)

	if p.Profession != "" {
		card.SetValue(vcard.FieldTitle, p.Profession)
	}

	if p.Email != "" {
		card.Add(vcard.FieldEmail, &vcard.Field{
			Value:  p.Email,
			Params: vcard.Params{vcard.ParamType: []string{"home"}},
		})
	}

	if p.Telephone != "" {
		card.Add(vcard.FieldTelephone, &vcard.Field{
			Value:  p.Telephone,
			Params: vcard.Params{vcard.ParamType: []string{"cell"}},
		})
	}

	if p.Address != "" {
		card.AddAddress(&vcard.Address{StreetAddress: p.Address})
	}

	vcard.ToV4(card)

	var buffer bytes.Buffer

	encoder := vcard.NewEncoder(&buffer)
	if err := encoder.Encode(card); err != nil {
		return nil, fmt.Errorf("failed to encode vcard: %w", err)
	}

	return buffer.Bytes(), nil
}
