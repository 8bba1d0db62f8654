/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulse/db"
	"github.com/humaidq/pulse/vitals"
)

var saveBusinessSettingsFn = db.SaveBusinessSettings

// BusinessSettingsForm renders the clinic details printed on reports.
func BusinessSettingsForm(c flamego.Context, t template.Template, data template.Data) {
	data["IsSettings"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{{Name: "Settings", URL: "/settings", IsCurrent: true}}

	settings, err := getBusinessSettingsFn(c.Request().Context())
	if err != nil {
		log.Printf("Error fetching business settings: %v", err)
		data["Error"] = "Failed to load business settings"
		settings = &db.BusinessSettings{}
	}

	data["Business"] = settings
	data["Missing"] = settings.MissingFields()

	t.HTML(http.StatusOK, "settings")
}

// validateBusinessSettings mirrors the patient form: every invalid field is
// reported at once.
func validateBusinessSettings(b db.BusinessSettings) error {
	fields := b.MissingFields()

	if b.Email != "" && !vitals.ValidEmail(b.Email) {
		fields = append(fields, "Business Email")
	}
	if b.Phone != "" && !vitals.ValidPhone(b.Phone) {
		fields = append(fields, "Business Phone")
	}

	if len(fields) > 0 {
		return &vitals.ValidationError{Fields: fields}
	}

	return nil
}

// SaveBusinessSettings stores the clinic details and an optional logo.
func SaveBusinessSettings(c flamego.Context, s session.Session) {
	if err := c.Request().ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/settings", http.StatusSeeOther)
		return
	}

	form := c.Request().Form
	settings := db.BusinessSettings{
		Name:    formValue(form, "name"),
		Address: formValue(form, "address"),
		Website: formValue(form, "website"),
		Email:   formValue(form, "email"),
		Phone:   strings.ReplaceAll(formValue(form, "phone"), " ", ""),
		TaxID:   formValue(form, "tax_id"),
	}

	if err := validateBusinessSettings(settings); err != nil {
		SetErrorFlash(s, err.Error())
		c.Redirect("/settings", http.StatusSeeOther)
		return
	}

	if file, header, err := c.Request().FormFile("logo"); err == nil {
		dataURL, err := readImageUpload(file, header)
		_ = file.Close()
		if err != nil {
			log.Printf("Rejected logo upload: %v", err)
			SetErrorFlash(s, "Logo must be a PNG, JPEG or GIF image under 2 MB")
			c.Redirect("/settings", http.StatusSeeOther)
			return
		}
		settings.Logo = &dataURL
	}

	if err := saveBusinessSettingsFn(c.Request().Context(), settings); err != nil {
		log.Printf("Error saving business settings: %v", err)
		SetErrorFlash(s, "Failed to save business settings")
		c.Redirect("/settings", http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Business settings saved")
	c.Redirect("/settings", http.StatusSeeOther)
}
