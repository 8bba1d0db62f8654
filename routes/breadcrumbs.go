/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

// BreadcrumbItem represents a single breadcrumb navigation item
type BreadcrumbItem struct {
	Name      string
	URL       string
	IsCurrent bool
}

func patientsBreadcrumb(isCurrent bool) BreadcrumbItem {
	return BreadcrumbItem{Name: "Patients", URL: "/patients", IsCurrent: isCurrent}
}

func patientBreadcrumb(patientID, name string, isCurrent bool) BreadcrumbItem {
	return BreadcrumbItem{Name: name, URL: "/patients/" + patientID, IsCurrent: isCurrent}
}

func visitsBreadcrumb(isCurrent bool) BreadcrumbItem {
	return BreadcrumbItem{Name: "Visits", URL: "/visits", IsCurrent: isCurrent}
}
