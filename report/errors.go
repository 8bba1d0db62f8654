/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import "errors"

var (
	// ErrNoPatient is returned when a report is requested without a patient.
	ErrNoPatient = errors.New("report has no patient")
	// ErrNoInvoiceItems is returned when an invoice has nothing to bill.
	ErrNoInvoiceItems = errors.New("invoice has no items")
	// ErrIncompleteBusiness is returned when required clinic details are missing.
	ErrIncompleteBusiness = errors.New("business settings are incomplete")
	// ErrInvalidDataURL is returned for images that are not base64 data URLs.
	ErrInvalidDataURL = errors.New("invalid image data URL")
	// ErrUnsupportedImage is returned for image types the PDF writer cannot embed.
	ErrUnsupportedImage = errors.New("unsupported image type")
)
