/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/humaidq/pulse/db"
	"github.com/humaidq/pulse/report"
	"github.com/humaidq/pulse/vitals"
)

// maxUploadBytes bounds photo and logo uploads, which are stored inline.
const maxUploadBytes = 2 << 20

func formValue(form url.Values, key string) string {
	return strings.TrimSpace(form.Get(key))
}

// registrationFromForm reads the raw patient form fields.
func registrationFromForm(form url.Values) vitals.Registration {
	return vitals.Registration{
		Form: vitals.Form{
			Weight:              formValue(form, "weight"),
			Height:              formValue(form, "height"),
			SystolicBP:          formValue(form, "systolic_bp"),
			DiastolicBP:         formValue(form, "diastolic_bp"),
			Pulse:               formValue(form, "pulse"),
			Temperature:         formValue(form, "temperature"),
			BirthDate:           formValue(form, "birth_date"),
			Gender:              formValue(form, "gender"),
			LastMenstrualPeriod: formValue(form, "last_menses"),
		},
		Name:          formValue(form, "name"),
		Address:       formValue(form, "address"),
		Email:         formValue(form, "email"),
		Profession:    formValue(form, "profession"),
		Telephone:     formValue(form, "telephone"),
		MaritalStatus: formValue(form, "marital_status"),
	}
}

// historyFromForm reads the medical history checkboxes.
func historyFromForm(form url.Values) db.MedicalHistory {
	on := func(name string) bool {
		v := form.Get(name)
		return v == "on" || v == "1" || v == "true"
	}

	return db.MedicalHistory{
		Diabetes:     on("diabetes"),
		Kidney:       on("kidney"),
		Epilepsy:     on("epilepsy"),
		Allergy:      on("allergy"),
		Asthma:       on("asthma"),
		Heart:        on("heart"),
		Cancer:       on("cancer"),
		Surgery:      on("surgery"),
		Stroke:       on("stroke"),
		Hypertension: on("hypertension"),
		Hypotension:  on("hypotension"),
		Alcohol:      on("alcohol"),
		Sports:       on("sports"),
		Smoking:      on("smoking"),
	}
}

// parsePatientForm validates a registration or edit form and converts it to
// database input. Validation failures are returned as *vitals.ValidationError.
func parsePatientForm(form url.Values, asOf time.Time) (db.PatientInput, error) {
	reg := registrationFromForm(form)
	if err := vitals.ValidateRegistration(reg, asOf); err != nil {
		return db.PatientInput{}, err
	}

	req, err := vitals.ParseForm(reg.Form, asOf)
	if err != nil {
		return db.PatientInput{}, err
	}

	born, err := vitals.ParseDate(req.BirthDate)
	if err != nil {
		return db.PatientInput{}, err
	}

	input := db.PatientInput{
		Name:          reg.Name,
		BirthDate:     born,
		Vitals:        req.Vitals,
		Address:       reg.Address,
		Email:         reg.Email,
		Profession:    reg.Profession,
		Telephone:     reg.Telephone,
		MaritalStatus: reg.MaritalStatus,
		History:       historyFromForm(form),
		Observations:  formValue(form, "observations"),
	}

	for _, lab := range []struct {
		field string
		dst   **float64
	}{
		{"glucose", &input.Glucose},
		{"cholesterol", &input.Cholesterol},
		{"uric_acid", &input.UricAcid},
	} {
		v, err := optionalFloat(formValue(form, lab.field))
		if err != nil {
			return db.PatientInput{}, fmt.Errorf("%w: %s", err, lab.field)
		}
		*lab.dst = v
	}

	return input, nil
}

func optionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, errInvalidMeasurement
	}

	return &v, nil
}

func optionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, errInvalidMeasurement
	}

	return &v, nil
}

// parseVisitForm reads a visit form. An empty date means today.
func parseVisitForm(form url.Values, today time.Time) (db.VisitInput, error) {
	input := db.VisitInput{
		VisitDate: today,
		Reason:    formValue(form, "reason"),
		Diagnosis: formValue(form, "diagnosis"),
		Treatment: formValue(form, "treatment"),
	}

	if raw := formValue(form, "visit_date"); raw != "" {
		date, err := vitals.ParseDate(raw)
		if err != nil {
			return db.VisitInput{}, errInvalidVisitDate
		}
		input.VisitDate = date
	}

	var err error
	if input.SystolicBP, err = optionalInt(formValue(form, "systolic_bp")); err != nil {
		return db.VisitInput{}, err
	}
	if input.DiastolicBP, err = optionalInt(formValue(form, "diastolic_bp")); err != nil {
		return db.VisitInput{}, err
	}
	if input.WeightKg, err = optionalFloat(formValue(form, "weight")); err != nil {
		return db.VisitInput{}, err
	}

	return input, nil
}

// parseInvoiceItemForm reads an invoice line. Quantity defaults to 1.
func parseInvoiceItemForm(form url.Values) (db.InvoiceItemInput, error) {
	input := db.InvoiceItemInput{
		Description: formValue(form, "description"),
		Quantity:    1,
	}
	if input.Description == "" {
		return db.InvoiceItemInput{}, fmt.Errorf("%w: description", errMissingField)
	}

	if raw := formValue(form, "quantity"); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty <= 0 {
			return db.InvoiceItemInput{}, errInvalidQuantity
		}
		input.Quantity = qty
	}

	price, err := decimal.NewFromString(formValue(form, "unit_price"))
	if err != nil || price.IsNegative() {
		return db.InvoiceItemInput{}, errInvalidPrice
	}
	input.UnitPrice = price

	return input, nil
}

// readImageUpload reads an uploaded image and returns it as a data URL.
func readImageUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxUploadBytes {
		return "", errUploadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return "", errUploadTooLarge
	}

	mime := http.DetectContentType(data)
	switch mime {
	case "image/png", "image/jpeg", "image/gif":
	default:
		return "", errUnsupportedUpload
	}

	return report.DataURL(mime, data), nil
}
