/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package vitals derives health metrics, alerts and patient identifiers from
// raw vital signs. Everything here is a pure function of its inputs; the
// caller supplies the reference date.
package vitals

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the dd-mm-yyyy layout used for every date a patient form carries.
const DateLayout = "02-01-2006"

// parseLayout accepts single-digit days and months as well.
const parseLayout = "2-1-2006"

// Gender is the patient's sex as recorded on the registration form.
type Gender string

// Gender values accepted by the calculators.
const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// ParseGender maps a form value to a Gender, ignoring case and surrounding space.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
}

// WeightStatus is the BMI band a patient falls into.
type WeightStatus string

// WeightStatus values.
const (
	Underweight WeightStatus = "Underweight"
	Normal      WeightStatus = "Normal"
	Overweight  WeightStatus = "Overweight"
	Obese       WeightStatus = "Obese"
)

// Vitals holds one set of measurements taken at a visit.
type Vitals struct {
	WeightKg     float64
	HeightM      float64
	SystolicBP   int
	DiastolicBP  int
	PulseBPM     int
	TemperatureC float64
	Gender       Gender
	// LastMenstrualPeriod is a dd-mm-yyyy date, empty when not recorded.
	LastMenstrualPeriod string
}

// Request is the input of Calculate.
type Request struct {
	Vitals    Vitals
	BirthDate string
	AsOf      time.Time
}

// Metrics is the result of Calculate. BMI and IdealBodyWeightKg are only
// meaningful when their Defined flag is set; a zero height leaves them undefined.
type Metrics struct {
	BMI                    float64
	BMIDefined             bool
	WeightStatus           WeightStatus
	Age                    int
	IdealBodyWeightKg      float64
	IdealBodyWeightDefined bool
	Alerts                 []string
}

// BMIDisplay formats the BMI for display, "N/A" when undefined.
func (m Metrics) BMIDisplay() string {
	if !m.BMIDefined {
		return "N/A"
	}

	return fmt.Sprintf("%.2f", m.BMI)
}

// IdealBodyWeightDisplay formats the ideal body weight, "N/A" when undefined.
func (m Metrics) IdealBodyWeightDisplay() string {
	if !m.IdealBodyWeightDefined {
		return "N/A"
	}

	return fmt.Sprintf("%.2f kg", m.IdealBodyWeightKg)
}

// WeightStatusDisplay returns the weight band, "N/A" when the BMI is undefined.
func (m Metrics) WeightStatusDisplay() string {
	if !m.BMIDefined {
		return "N/A"
	}

	return string(m.WeightStatus)
}

// AlertText joins the alerts on one line, "none" when there are none.
func (m Metrics) AlertText() string {
	if len(m.Alerts) == 0 {
		return "none"
	}

	return strings.Join(m.Alerts, "; ")
}

// ParseDate parses a dd-mm-yyyy date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(parseLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}

	return t, nil
}

// FormatDate renders t as dd-mm-yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Calculate derives every metric for one request.
func Calculate(req Request) (Metrics, error) {
	age, err := CalculateAge(req.BirthDate, req.AsOf)
	if err != nil {
		return Metrics{}, err
	}

	m := Metrics{Age: age}

	m.BMI, m.BMIDefined = CalculateBMI(req.Vitals.WeightKg, req.Vitals.HeightM)
	if m.BMIDefined {
		m.WeightStatus = ClassifyWeightStatus(m.BMI)
	}

	m.IdealBodyWeightKg, m.IdealBodyWeightDefined = CalculateIdealBodyWeight(req.Vitals.HeightM, req.Vitals.Gender)
	m.Alerts = AssessHealth(req.Vitals, req.AsOf)

	return m, nil
}
