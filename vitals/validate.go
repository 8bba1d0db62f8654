/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nameRegex      = regexp.MustCompile(`^[A-Za-z\s\-' ]+$`)
	birthDateRegex = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	phoneRegex     = regexp.MustCompile(`^\+?1?\d{9,15}$`)
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)
)

// MaritalStatuses lists the accepted marital status values.
var MaritalStatuses = []string{"Single", "Married", "Widowed"}

// Registration is a full patient form: the vitals plus identity and contact fields.
type Registration struct {
	Form
	Name          string
	Address       string
	Email         string
	Profession    string
	Telephone     string
	MaritalStatus string
}

// ValidationError lists the labels of every invalid field, in form order.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "The following fields are invalid: " + strings.Join(e.Fields, ", ")
}

// ValidateRegistration checks a registration form against the accepted
// ranges. It returns a *ValidationError naming every invalid field, or nil.
func ValidateRegistration(r Registration, asOf time.Time) error {
	var fields []string

	if !ValidName(r.Name) {
		fields = append(fields, "Name")
	}

	if !ValidBirthDate(r.BirthDate, asOf) {
		fields = append(fields, "Birth Date")
	}

	if !ValidWeight(r.Weight) {
		fields = append(fields, "Weight")
	}

	if !ValidHeight(r.Height) {
		fields = append(fields, "Height")
	}

	if !ValidBloodPressure(r.SystolicBP, r.DiastolicBP) {
		fields = append(fields, "Blood Pressure")
	}

	if !ValidPulse(r.Pulse) {
		fields = append(fields, "Pulse")
	}

	if !ValidTemperature(r.Temperature) {
		fields = append(fields, "Temperature")
	}

	if !ValidPhone(r.Telephone) {
		fields = append(fields, "Telephone")
	}

	if strings.TrimSpace(r.Email) != "" && !ValidEmail(r.Email) {
		fields = append(fields, "Email")
	}

	gender, err := ParseGender(r.Gender)
	if err != nil {
		fields = append(fields, "Gender")
	}

	if gender == GenderFemale && strings.TrimSpace(r.LastMenstrualPeriod) != "" {
		if _, err := ParseDate(r.LastMenstrualPeriod); err != nil {
			fields = append(fields, "Last Menses")
		}
	}

	if !validMaritalStatus(r.MaritalStatus) {
		fields = append(fields, "Marital Status")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

// ValidName accepts letters, spaces, hyphens and apostrophes.
func ValidName(name string) bool {
	return nameRegex.MatchString(strings.TrimSpace(name))
}

// ValidBirthDate requires a zero-padded dd-mm-yyyy date that is not after asOf.
func ValidBirthDate(s string, asOf time.Time) bool {
	s = strings.TrimSpace(s)
	if !birthDateRegex.MatchString(s) {
		return false
	}

	born, err := ParseDate(s)
	if err != nil {
		return false
	}

	return !born.After(asOf)
}

// ValidWeight requires a positive number of kilograms.
func ValidWeight(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v > 0
}

// ValidHeight requires a height between 0.5 and 2.5 metres.
func ValidHeight(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v >= 0.5 && v <= 2.5
}

// ValidBloodPressure requires systolic 50-250 and diastolic 30-180 mmHg.
func ValidBloodPressure(systolic, diastolic string) bool {
	sys, err := strconv.Atoi(strings.TrimSpace(systolic))
	if err != nil {
		return false
	}

	dia, err := strconv.Atoi(strings.TrimSpace(diastolic))
	if err != nil {
		return false
	}

	return sys >= 50 && sys <= 250 && dia >= 30 && dia <= 180
}

// ValidPulse requires 30-200 beats per minute.
func ValidPulse(s string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && v >= 30 && v <= 200
}

// ValidTemperature requires 34-42 °C.
func ValidTemperature(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v >= 34.0 && v <= 42.0
}

// ValidPhone accepts 9 to 15 digits with an optional leading + and country code 1.
func ValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

// ValidEmail performs a loose syntactic check.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

func validMaritalStatus(s string) bool {
	for _, status := range MaritalStatuses {
		if s == status {
			return true
		}
	}

	return false
}
