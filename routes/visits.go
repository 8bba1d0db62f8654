/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/pulse/db"
	"github.com/humaidq/pulse/report"
)

var (
	createVisitFn       = db.CreateVisit
	getVisitFn          = db.GetVisit
	searchVisitsFn      = db.SearchVisits
	deleteVisitFn       = db.DeleteVisit
	addInvoiceItemFn    = db.AddInvoiceItem
	listInvoiceItemsFn  = db.ListInvoiceItems
	deleteInvoiceItemFn = db.DeleteInvoiceItem
)

func visitURL(id string) string {
	return "/visits/" + id
}

// ListVisits displays all visits, filtered by patient name or file ID.
func ListVisits(c flamego.Context, t template.Template, data template.Data) {
	data["IsVisits"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{visitsBreadcrumb(true)}

	query := strings.TrimSpace(c.Query("q"))
	data["Query"] = query

	visits, err := searchVisitsFn(c.Request().Context(), query)
	if err != nil {
		log.Printf("Error fetching visits: %v", err)
		data["Error"] = "Failed to load visits"
	} else {
		data["Visits"] = visits
	}

	t.HTML(http.StatusOK, "visits_list")
}

// CreateVisit records a consultation from the patient page.
func CreateVisit(c flamego.Context, s session.Session) {
	patientID := c.Param("id")
	back := patientURL(patientID)

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	input, err := parseVisitForm(c.Request().Form, nowFn())
	if err != nil {
		log.Printf("Invalid visit form: %v", err)
		SetErrorFlash(s, "Invalid visit: "+err.Error())
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	visitID, err := createVisitFn(c.Request().Context(), patientID, input)
	if err != nil {
		log.Printf("Error creating visit for %s: %v", patientID, err)
		SetErrorFlash(s, "Failed to record visit")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Visit recorded")
	c.Redirect(visitURL(visitID), http.StatusSeeOther)
}

// ViewVisit displays a visit with its invoice items and totals.
func ViewVisit(c flamego.Context, s session.Session, t template.Template, data template.Data) {
	data["IsVisits"] = true
	id := c.Param("id")
	ctx := c.Request().Context()

	visit, err := getVisitFn(ctx, id)
	if err != nil {
		log.Printf("Error fetching visit %s: %v", id, err)
		SetErrorFlash(s, "Visit not found")
		c.Redirect("/visits", http.StatusSeeOther)
		return
	}

	items, err := listInvoiceItemsFn(ctx, id)
	if err != nil {
		log.Printf("Error fetching invoice items for %s: %v", id, err)
		data["Error"] = "Failed to load invoice items"
	}

	patientID := visit.PatientID.String()
	data["Visit"] = visit
	data["Items"] = items
	data["Totals"] = report.Totals(items)
	data["VATLabel"] = report.VATLabel()
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(patientID, visit.PatientName, false),
		{Name: "Visit " + visit.VisitDateDisplay(), IsCurrent: true},
	}

	t.HTML(http.StatusOK, "visit_view")
}

// DeleteVisit removes a visit and its invoice items.
func DeleteVisit(c flamego.Context, s session.Session) {
	id := c.Param("id")
	ctx := c.Request().Context()

	visit, err := getVisitFn(ctx, id)
	if err != nil {
		log.Printf("Error fetching visit %s: %v", id, err)
		SetErrorFlash(s, "Visit not found")
		c.Redirect("/visits", http.StatusSeeOther)
		return
	}

	if err := deleteVisitFn(ctx, id); err != nil {
		log.Printf("Error deleting visit %s: %v", id, err)
		SetErrorFlash(s, "Failed to delete visit")
		c.Redirect(visitURL(id), http.StatusSeeOther)
		return
	}

	SetSuccessFlash(s, "Visit deleted")
	c.Redirect(patientURL(visit.PatientID.String()), http.StatusSeeOther)
}

// AddInvoiceItem bills an item on a visit.
func AddInvoiceItem(c flamego.Context, s session.Session) {
	id := c.Param("id")
	back := visitURL(id)

	if err := c.Request().ParseForm(); err != nil {
		log.Printf("Error parsing form: %v", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	input, err := parseInvoiceItemForm(c.Request().Form)
	if err != nil {
		log.Printf("Invalid invoice item: %v", err)
		SetErrorFlash(s, "Invalid invoice item: "+err.Error())
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	if _, err := addInvoiceItemFn(c.Request().Context(), id, input); err != nil {
		log.Printf("Error adding invoice item to %s: %v", id, err)
		SetErrorFlash(s, "Failed to add invoice item")
		c.Redirect(back, http.StatusSeeOther)
		return
	}

	c.Redirect(back, http.StatusSeeOther)
}

// DeleteInvoiceItem removes an item from a visit's invoice.
func DeleteInvoiceItem(c flamego.Context, s session.Session) {
	id := c.Param("id")

	if err := deleteInvoiceItemFn(c.Request().Context(), c.Param("item_id")); err != nil {
		log.Printf("Error deleting invoice item: %v", err)
		SetErrorFlash(s, "Failed to delete invoice item")
	}

	c.Redirect(visitURL(id), http.StatusSeeOther)
}
