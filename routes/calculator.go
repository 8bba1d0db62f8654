/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"log"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/flamego/template"

	"github.com/humaidq/pulse/vitals"
)

// Calculator renders the metrics calculator. A submitted form is evaluated
// on the spot without storing anything.
func Calculator(c flamego.Context, t template.Template, data template.Data) {
	data["IsCalculator"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{{Name: "Calculator", URL: "/calculator", IsCurrent: true}}
	data["Genders"] = []vitals.Gender{vitals.GenderMale, vitals.GenderFemale}

	if c.Request().Method != http.MethodPost {
		t.HTML(http.StatusOK, "calculator")
		return
	}

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		data["Error"] = "Failed to parse form"
		t.HTML(http.StatusBadRequest, "calculator")
		return
	}

	form := registrationFromForm(c.Request().Form).Form
	data["Form"] = form

	now := nowFn()

	req, err := vitals.ParseForm(form, now)
	if err != nil {
		data["Error"] = formErrorMessage(err)
		t.HTML(http.StatusUnprocessableEntity, "calculator")
		return
	}

	metrics, err := vitals.Calculate(req)
	if err != nil {
		data["Error"] = formErrorMessage(err)
		t.HTML(http.StatusUnprocessableEntity, "calculator")
		return
	}

	identifier, err := vitals.GeneratePatientIdentifier(req.Vitals.Gender, req.BirthDate, now)
	if err != nil {
		log.Printf("Error generating sample identifier: %v", err)
	}

	data["Metrics"] = metrics
	data["Identifier"] = identifier

	t.HTML(http.StatusOK, "calculator")
}
