/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "time"

// CalculateAge returns the age in whole years on asOf for a dd-mm-yyyy birth date.
func CalculateAge(birthDate string, asOf time.Time) (int, error) {
	born, err := ParseDate(birthDate)
	if err != nil {
		return 0, err
	}

	return AgeAt(born, asOf), nil
}

// AgeAt returns the age in whole years at a given date.
func AgeAt(born, asOf time.Time) int {
	years := asOf.Year() - born.Year()
	// Birthday not reached yet this year
	if asOf.Month() < born.Month() ||
		(asOf.Month() == born.Month() && asOf.Day() < born.Day()) {
		years--
	}

	return years
}

// daysBetween counts calendar days from one date to another, ignoring clock time.
func daysBetween(from, to time.Time) int {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	return int(end.Sub(start).Hours() / 24)
}
