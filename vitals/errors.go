/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "errors"

var (
	// ErrInvalidNumericInput is returned when a numeric form field cannot be coerced.
	ErrInvalidNumericInput = errors.New("invalid numeric input")
	// ErrInvalidDateFormat is returned when a date is not in dd-mm-yyyy form.
	ErrInvalidDateFormat = errors.New("invalid date format, expected dd-mm-yyyy")
	// ErrInvalidGender is returned for anything other than Male or Female.
	ErrInvalidGender = errors.New("invalid gender, expected Male or Female")
)
