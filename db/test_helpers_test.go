// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/humaidq/pulse/vitals"
)

var testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func testContext() context.Context {
	return context.Background()
}

func floatPtr(value float64) *float64 {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func requireDB(t *testing.T) string {
	t.Helper()

	baseURL := os.Getenv("DATABASE_URL")
	if baseURL == "" || pool == nil {
		t.Skip("database not configured")
	}

	return baseURL
}

func samplePatientInput(name string) PatientInput {
	return PatientInput{
		Name:      name,
		BirthDate: time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC),
		Vitals: vitals.Vitals{
			WeightKg:     70,
			HeightM:      1.75,
			SystolicBP:   115,
			DiastolicBP:  75,
			PulseBPM:     72,
			TemperatureC: 36.6,
			Gender:       vitals.GenderMale,
		},
		Address:       "12 Rue Principale, Dakar",
		Email:         "patient@example.com",
		Profession:    "Nurse",
		Telephone:     "+221771234567",
		MaritalStatus: "Single",
	}
}

func mustRegisterPatient(t *testing.T, input PatientInput) *Patient {
	t.Helper()
	patient, err := RegisterPatient(testContext(), input, testNow)
	if err != nil {
		t.Fatalf("failed to register patient: %v", err)
	}
	return patient
}

func mustCreateVisit(t *testing.T, patientID string, date time.Time) string {
	t.Helper()
	visitID, err := CreateVisit(testContext(), patientID, VisitInput{VisitDate: date, Reason: "Checkup"})
	if err != nil {
		t.Fatalf("failed to create visit: %v", err)
	}
	return visitID
}
