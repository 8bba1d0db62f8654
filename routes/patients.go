/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulse/db"
	"github.com/humaidq/pulse/vitals"
)

// Database operations are indirected so handlers can be tested without
// PostgreSQL.
var (
	searchPatientsFn  = db.SearchPatients
	getPatientFn      = db.GetPatient
	registerPatientFn = db.RegisterPatient
	updatePatientFn   = db.UpdatePatient
	deletePatientFn   = db.DeletePatient
	setPatientPhotoFn = db.SetPatientPhoto
	setObservationsFn = db.SetObservations
	listVisitsFn      = db.ListVisits
	nowFn             = time.Now
)

func patientURL(id string) string {
	return "/patients/" + id
}

// formErrorMessage turns a parse or validation error into a user message.
func formErrorMessage(err error) string {
	var verr *vitals.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, vitals.ErrInvalidNumericInput):
		return "Please enter valid numbers for the measurements"
	case errors.Is(err, vitals.ErrInvalidDateFormat):
		return "Dates must be in dd-mm-yyyy format"
	case errors.Is(err, vitals.ErrInvalidGender):
		return "Please select a gender"
	case errors.Is(err, errInvalidMeasurement):
		return "Lab measurements must be positive numbers"
	}

	return "Invalid form input"
}

func setPatientFormData(data template.Data) {
	data["IsPatients"] = true
	data["MaritalStatuses"] = vitals.MaritalStatuses
	data["Genders"] = []vitals.Gender{vitals.GenderMale, vitals.GenderFemale}
}

// ListPatients displays all patients, filtered by the "q" search term.
func ListPatients(c flamego.Context, t template.Template, data template.Data) {
	data["IsPatients"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{patientsBreadcrumb(true)}

	query := strings.TrimSpace(c.Query("q"))
	data["Query"] = query

	patients, err := searchPatientsFn(c.Request().Context(), query)
	if err != nil {
		log.Printf("Error fetching patients: %v", err)
		data["Error"] = "Failed to load patients"
	} else {
		data["Patients"] = patients
	}

	t.HTML(http.StatusOK, "patients_list")
}

// NewPatientForm renders the registration form
func NewPatientForm(t template.Template, data template.Data) {
	setPatientFormData(data)
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		{Name: "Register", IsCurrent: true},
	}
	data["History"] = db.MedicalHistory{}.Fields()

	t.HTML(http.StatusOK, "patient_new")
}

// CreatePatient validates the registration form and stores the patient.
func CreatePatient(c flamego.Context, s session.Session) {
	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/patients/new", http.StatusSeeOther)
		return
	}

	now := nowFn()

	input, err := parsePatientForm(c.Request().Form, now)
	if err != nil {
		log.Printf("Invalid registration form: %v", err)
		SetErrorFlash(s, formErrorMessage(err))
		c.Redirect("/patients/new", http.StatusSeeOther)
		return
	}

	patient, err := registerPatientFn(c.Request().Context(), input, now)
	if err != nil {
		log.Printf("Error registering patient: %v", err)
		SetErrorFlash(s, "Failed to register patient")
		c.Redirect("/patients/new", http.StatusSeeOther)
		return
	}

	id := patient.ID.String()
	log.Printf("Registered patient %s (%s)", id, patient.FileUID)

	if len(patient.Alerts) > 0 {
		SetWarningFlash(s, "Patient registered with alerts: "+strings.Join(patient.Alerts, ", "))
	} else {
		SetSuccessFlash(s, "Patient registered with file ID "+patient.FileUID)
	}
	c.Redirect(patientURL(id), http.StatusSeeOther)
}

// ViewPatient displays a patient with derived metrics, alerts, QR code, chart
// and visits.
func ViewPatient(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	data["IsPatients"] = true
	id := c.Param("id")
	ctx := c.Request().Context()

	patient, err := getPatientFn(ctx, id)
	if err != nil {
		log.Printf("Error fetching patient %s: %v", id, err)
		SetErrorFlash(s, "Patient not found")
		c.Redirect("/patients", http.StatusSeeOther)
		return
	}

	data["Patient"] = patient
	data["Metrics"] = patient.Metrics()
	data["CurrentAge"] = patient.CurrentAge(nowFn())
	data["History"] = patient.History.Fields()
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(id, patient.Name, true),
	}

	visits, err := listVisitsFn(ctx, id)
	if err != nil {
		log.Printf("Error fetching visits for patient %s: %v", id, err)
		data["Error"] = "Failed to load visits"
	}
	data["Visits"] = visits

	chart, err := generateVitalsChart(patient, visits)
	if err != nil {
		log.Printf("Error generating vitals chart: %v", err)
	} else if chart != "" {
		data["VitalsChart"] = htmltemplate.HTML(chart)
	}

	data["Today"] = vitals.FormatDate(nowFn())

	t.HTML(http.StatusOK, "patient_view")
}

// EditPatientForm renders the edit form prefilled with the stored record
func EditPatientForm(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	setPatientFormData(data)
	id := c.Param("id")

	patient, err := getPatientFn(c.Request().Context(), id)
	if err != nil {
		log.Printf("Error fetching patient %s: %v", id, err)
		SetErrorFlash(s, "Patient not found")
		c.Redirect("/patients", http.StatusSeeOther)
		return
	}

	data["Patient"] = patient
	data["History"] = patient.History.Fields()
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(id, patient.Name, false),
		{Name: "Edit", IsCurrent: true},
	}

	t.HTML(http.StatusOK, "patient_edit")
}

// UpdatePatient validates the edit form and recomputes the derived metrics.
func UpdatePatient(c flamego.Context, s session.Session) {
	id := c.Param("id")
	editURL := patientURL(id) + "/edit"

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}

	now := nowFn()

	input, err := parsePatientForm(c.Request().Form, now)
	if err != nil {
		log.Printf("Invalid patient form: %v", err)
		SetErrorFlash(s, formErrorMessage(err))
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}

	if err := updatePatientFn(c.Request().Context(), id, input, now); err != nil {
		log.Printf("Error updating patient %s: %v", id, err)
		if errors.Is(err, db.ErrPatientNotFound) {
			SetErrorFlash(s, "Patient not found")
			c.Redirect("/patients", http.StatusSeeOther)
			return
		}
		SetErrorFlash(s, "Failed to update patient")
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Patient updated successfully")
	c.Redirect(patientURL(id), http.StatusSeeOther)
}

// DeletePatient removes a patient and their visits
func DeletePatient(c flamego.Context, s session.Session) {
	id := c.Param("id")

	if err := deletePatientFn(c.Request().Context(), id); err != nil {
		log.Printf("Error deleting patient %s: %v", id, err)
		SetErrorFlash(s, "Failed to delete patient")
		c.Redirect(patientURL(id), http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Patient deleted")
	c.Redirect("/patients", http.StatusSeeOther)
}

// UploadPatientPhoto stores an uploaded image as the patient's photo.
func UploadPatientPhoto(c flamego.Context, s session.Session) {
	id := c.Param("id")
	back := patientURL(id)

	file, header, err := c.Request().FormFile("photo")
	if err != nil {
		log.Printf("Error reading photo upload: %v", err)
		SetErrorFlash(s, "Please choose an image to upload")
		c.Redirect(back, http.StatusSeeOther)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warn("Failed to close upload", "error", err)
		}
	}()

	dataURL, err := readImageUpload(file, header)
	if err != nil {
		log.Printf("Rejected photo upload for %s: %v", id, err)
		SetErrorFlash(s, "Photo must be a PNG, JPEG or GIF image under 2 MB")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	if err := setPatientPhotoFn(c.Request().Context(), id, dataURL); err != nil {
		log.Printf("Error saving photo for %s: %v", id, err)
		SetErrorFlash(s, "Failed to save photo")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Photo updated")
	c.Redirect(back, http.StatusSeeOther)
}

// RemovePatientPhoto clears the patient's photo.
func RemovePatientPhoto(c flamego.Context, s session.Session) {
	id := c.Param("id")

	if err := setPatientPhotoFn(c.Request().Context(), id, ""); err != nil {
		log.Printf("Error removing photo for %s: %v", id, err)
		SetErrorFlash(s, "Failed to remove photo")
	} else {
		SetSuccessFlash(s, "Photo removed")
	}

	c.Redirect(patientURL(id), http.StatusSeeOther)
}

// UpdateObservations replaces the free-text observations on a patient.
func UpdateObservations(c flamego.Context, s session.Session) {
	id := c.Param("id")
	back := patientURL(id)

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	if err := setObservationsFn(c.Request().Context(), id, c.Request().Form.Get("observations")); err != nil {
		log.Printf("Error saving observations for %s: %v", id, err)
		SetErrorFlash(s, "Failed to save observations")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Observations saved")
	c.Redirect(back, http.StatusSeeOther)
}
