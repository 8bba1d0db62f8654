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

	"github.com/humaidq/pulse/db"
)

const recentVisitsLimit = 5

// Welcome renders the dashboard page
func Welcome(c flamego.Context, t template.Template, data template.Data) {
	ctx := c.Request().Context()

	patients, err := searchPatientsFn(ctx, "")
	if err != nil {
		log.Printf("Error fetching patients: %v", err)
	}
	data["PatientCount"] = len(patients)

	withAlerts := 0
	for _, p := range patients {
		if len(p.Alerts) > 0 {
			withAlerts++
		}
	}
	data["AlertCount"] = withAlerts

	visits, err := searchVisitsFn(ctx, "")
	if err != nil {
		log.Printf("Error fetching visits: %v", err)
	}
	data["VisitCount"] = len(visits)
	if len(visits) > recentVisitsLimit {
		visits = visits[:recentVisitsLimit]
	}
	data["RecentVisits"] = visits

	settings, err := getBusinessSettingsFn(ctx)
	if err != nil {
		log.Printf("Error fetching business settings: %v", err)
		settings = &db.BusinessSettings{}
	}
	data["MissingSettings"] = settings.MissingFields()

	data["IsWelcome"] = true
	t.HTML(http.StatusOK, "welcome")
}
