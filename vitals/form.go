/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Form carries the untyped values of a vitals form exactly as submitted.
type Form struct {
	Weight              string
	Height              string
	SystolicBP          string
	DiastolicBP         string
	Pulse               string
	Temperature         string
	BirthDate           string
	Gender              string
	LastMenstrualPeriod string
}

// ParseForm coerces a submitted form into a typed Request evaluated on asOf.
// The last menstrual period is only kept for female patients.
func ParseForm(f Form, asOf time.Time) (Request, error) {
	var (
		req Request
		err error
	)

	if req.Vitals.WeightKg, err = parseFloat("weight", f.Weight); err != nil {
		return Request{}, err
	}
	if req.Vitals.HeightM, err = parseFloat("height", f.Height); err != nil {
		return Request{}, err
	}
	if req.Vitals.SystolicBP, err = parseInt("systolic_bp", f.SystolicBP); err != nil {
		return Request{}, err
	}
	if req.Vitals.DiastolicBP, err = parseInt("diastolic_bp", f.DiastolicBP); err != nil {
		return Request{}, err
	}
	if req.Vitals.PulseBPM, err = parseInt("pulse", f.Pulse); err != nil {
		return Request{}, err
	}
	if req.Vitals.TemperatureC, err = parseFloat("temperature", f.Temperature); err != nil {
		return Request{}, err
	}
	if req.Vitals.Gender, err = ParseGender(f.Gender); err != nil {
		return Request{}, err
	}

	born, err := ParseDate(f.BirthDate)
	if err != nil {
		return Request{}, fmt.Errorf("birth_date: %w", err)
	}
	req.BirthDate = FormatDate(born)

	if req.Vitals.Gender == GenderFemale {
		req.Vitals.LastMenstrualPeriod = strings.TrimSpace(f.LastMenstrualPeriod)
	}

	req.AsOf = asOf

	return req, nil
}

func parseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumericInput, field, raw)
	}

	return v, nil
}

func parseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumericInput, field, raw)
	}

	return v, nil
}
