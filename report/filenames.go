/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// sanitize replaces every character that is not a letter, digit, underscore
// or whitespace with an underscore.
func sanitize(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

// InvoiceFileName names an invoice after the customer's first name and the
// generation time, e.g. _BFINV_Awa_15-03-2024-100000.pdf.
func InvoiceFileName(customerName string, now time.Time) string {
	first := strings.Split(strings.TrimSpace(customerName), " ")[0]

	return fmt.Sprintf("_BFINV_%s_%s.pdf", sanitize(first), now.Format("02-01-2006-150405"))
}

// ReportFileName names a patient report after its file UID and the Unix time.
func ReportFileName(fileUID string, now time.Time) string {
	return fmt.Sprintf("report_%s_%d.pdf", sanitize(fileUID), now.Unix())
}
