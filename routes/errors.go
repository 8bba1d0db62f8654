/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errMissingField       = errors.New("missing field")
	errInvalidQuantity    = errors.New("quantity must be a positive whole number")
	errInvalidPrice       = errors.New("unit price must be a non-negative amount")
	errUploadTooLarge     = errors.New("uploaded image is too large")
	errUnsupportedUpload  = errors.New("uploaded file is not a PNG, JPEG or GIF image")
	errInvalidVisitDate   = errors.New("invalid visit date")
	errInvalidMeasurement = errors.New("invalid measurement")
)
