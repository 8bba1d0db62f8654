/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/humaidq/pulse/vitals"
)

const (
	uniqueViolation       = "23505"
	fileUIDConstraint     = "patients_file_uid_key"
	maxIdentifierAttempts = 5
)

// newFileUID is swapped in tests to force identifier collisions.
var newFileUID = vitals.GeneratePatientIdentifier

const patientColumns = `
	id, file_uid, name, birth_date, registered_on, age, weight_kg, height_m,
	bmi, weight_status, systolic_bp, diastolic_bp, pulse, temperature_c,
	glucose, cholesterol, uric_acid, gender, last_menses, photo,
	address, email, profession, telephone, marital_status,
	diabetes, kidney, epilepsy, allergy, asthma, heart, cancer, surgery,
	stroke, hypertension, hypotension, alcohol, sports, smoking,
	ideal_weight_kg, alerts, observations, created_at, updated_at
`

const summaryColumns = `
	id, file_uid, name, birth_date, gender, age, telephone, address,
	bmi, weight_status, alerts, visit_count, last_visit_date
`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID, &p.FileUID, &p.Name, &p.BirthDate, &p.RegisteredOn, &p.Age, &p.WeightKg, &p.HeightM,
		&p.BMI, &p.WeightStatus, &p.SystolicBP, &p.DiastolicBP, &p.Pulse, &p.TemperatureC,
		&p.Glucose, &p.Cholesterol, &p.UricAcid, &p.Gender, &p.LastMenses, &p.Photo,
		&p.Address, &p.Email, &p.Profession, &p.Telephone, &p.MaritalStatus,
		&p.History.Diabetes, &p.History.Kidney, &p.History.Epilepsy, &p.History.Allergy,
		&p.History.Asthma, &p.History.Heart, &p.History.Cancer, &p.History.Surgery,
		&p.History.Stroke, &p.History.Hypertension, &p.History.Hypotension,
		&p.History.Alcohol, &p.History.Sports, &p.History.Smoking,
		&p.IdealWeightKg, &p.Alerts, &p.Observations, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func scanPatientSummaries(rows pgx.Rows) ([]PatientSummary, error) {
	defer rows.Close()

	var patients []PatientSummary
	for rows.Next() {
		var s PatientSummary
		err := rows.Scan(
			&s.ID, &s.FileUID, &s.Name, &s.BirthDate, &s.Gender, &s.Age, &s.Telephone, &s.Address,
			&s.BMI, &s.WeightStatus, &s.Alerts, &s.VisitCount, &s.LastVisitDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, nil
}

// derived holds the computed columns written alongside a patient's vitals.
type derived struct {
	age          int
	bmi          *float64
	weightStatus *string
	idealWeight  *float64
	alerts       []string
	lastMenses   *time.Time
}

func derive(input PatientInput, asOf time.Time) (derived, error) {
	m, err := vitals.Calculate(vitals.Request{
		Vitals:    input.Vitals,
		BirthDate: vitals.FormatDate(input.BirthDate),
		AsOf:      asOf,
	})
	if err != nil {
		return derived{}, err
	}

	d := derived{age: m.Age, alerts: m.Alerts}
	if d.alerts == nil {
		d.alerts = []string{}
	}
	if m.BMIDefined {
		bmi := m.BMI
		status := string(m.WeightStatus)
		d.bmi, d.weightStatus = &bmi, &status
	}
	if m.IdealBodyWeightDefined {
		ibw := m.IdealBodyWeightKg
		d.idealWeight = &ibw
	}

	// An unparseable date already surfaced as an alert; store nothing.
	if input.Vitals.Gender == vitals.GenderFemale && input.Vitals.LastMenstrualPeriod != "" {
		if lmp, err := vitals.ParseDate(input.Vitals.LastMenstrualPeriod); err == nil {
			d.lastMenses = &lmp
		}
	}

	return d, nil
}

// RegisterPatient stores a new patient with its derived metrics and a freshly
// generated file identifier. Identifier collisions are retried a few times.
func RegisterPatient(ctx context.Context, input PatientInput, asOf time.Time) (*Patient, error) {
	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	d, err := derive(input, asOf)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO patients (
			file_uid, name, birth_date, registered_on, age, weight_kg, height_m,
			bmi, weight_status, systolic_bp, diastolic_bp, pulse, temperature_c,
			glucose, cholesterol, uric_acid, gender, last_menses,
			address, email, profession, telephone, marital_status,
			diabetes, kidney, epilepsy, allergy, asthma, heart, cancer, surgery,
			stroke, hypertension, hypotension, alcohol, sports, smoking,
			ideal_weight_kg, alerts, observations
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34,
			$35, $36, $37, $38, $39, $40
		)
		RETURNING id
	`

	h := input.History
	birthDate := vitals.FormatDate(input.BirthDate)

	for attempt := 1; attempt <= maxIdentifierAttempts; attempt++ {
		fileUID, err := newFileUID(input.Vitals.Gender, birthDate, asOf)
		if err != nil {
			return nil, err
		}

		var id string
		err = p.QueryRow(ctx, query,
			fileUID, strings.TrimSpace(input.Name), input.BirthDate, asOf, d.age,
			input.Vitals.WeightKg, input.Vitals.HeightM, d.bmi, d.weightStatus,
			input.Vitals.SystolicBP, input.Vitals.DiastolicBP, input.Vitals.PulseBPM, input.Vitals.TemperatureC,
			input.Glucose, input.Cholesterol, input.UricAcid, input.Vitals.Gender, d.lastMenses,
			input.Address, input.Email, input.Profession, input.Telephone, input.MaritalStatus,
			h.Diabetes, h.Kidney, h.Epilepsy, h.Allergy, h.Asthma, h.Heart, h.Cancer, h.Surgery,
			h.Stroke, h.Hypertension, h.Hypotension, h.Alcohol, h.Sports, h.Smoking,
			d.idealWeight, d.alerts, input.Observations,
		).Scan(&id)
		if err == nil {
			logger.Info("Registered patient", "id", id, "file_uid", fileUID, "alerts", len(d.alerts))
			return GetPatient(ctx, id)
		}

		if !isFileUIDCollision(err) {
			return nil, fmt.Errorf("failed to register patient: %w", err)
		}

		logger.Warn("Patient file identifier collision, retrying", "file_uid", fileUID, "attempt", attempt)
	}

	return nil, ErrIdentifierExhausted
}

func isFileUIDCollision(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == fileUIDConstraint
}

// UpdatePatient rewrites a patient's details and recomputes the derived
// metrics. The file identifier, photo and registration date are kept.
func UpdatePatient(ctx context.Context, id string, input PatientInput, asOf time.Time) error {
	if !validID(id) {
		return ErrPatientNotFound
	}

	p, err := requirePool()
	if err != nil {
		return err
	}

	d, err := derive(input, asOf)
	if err != nil {
		return err
	}

	query := `
		UPDATE patients SET
			name = $1, birth_date = $2, age = $3, weight_kg = $4, height_m = $5,
			bmi = $6, weight_status = $7, systolic_bp = $8, diastolic_bp = $9,
			pulse = $10, temperature_c = $11, glucose = $12, cholesterol = $13,
			uric_acid = $14, gender = $15, last_menses = $16, address = $17,
			email = $18, profession = $19, telephone = $20, marital_status = $21,
			diabetes = $22, kidney = $23, epilepsy = $24, allergy = $25, asthma = $26,
			heart = $27, cancer = $28, surgery = $29, stroke = $30, hypertension = $31,
			hypotension = $32, alcohol = $33, sports = $34, smoking = $35,
			ideal_weight_kg = $36, alerts = $37, observations = $38
		WHERE id = $39
	`

	h := input.History

	tag, err := p.Exec(ctx, query,
		strings.TrimSpace(input.Name), input.BirthDate, d.age, input.Vitals.WeightKg, input.Vitals.HeightM,
		d.bmi, d.weightStatus, input.Vitals.SystolicBP, input.Vitals.DiastolicBP,
		input.Vitals.PulseBPM, input.Vitals.TemperatureC, input.Glucose, input.Cholesterol,
		input.UricAcid, input.Vitals.Gender, d.lastMenses, input.Address,
		input.Email, input.Profession, input.Telephone, input.MaritalStatus,
		h.Diabetes, h.Kidney, h.Epilepsy, h.Allergy, h.Asthma,
		h.Heart, h.Cancer, h.Surgery, h.Stroke, h.Hypertension,
		h.Hypotension, h.Alcohol, h.Sports, h.Smoking,
		d.idealWeight, d.alerts, input.Observations,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}

	return nil
}

// DeletePatient deletes a patient (cascades to visits and invoice items)
func DeletePatient(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrPatientNotFound
	}

	p, err := requirePool()
	if err != nil {
		return err
	}

	tag, err := p.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}

	logger.Info("Deleted patient", "id", id)

	return nil
}

// GetPatient returns a single patient by ID
func GetPatient(ctx context.Context, id string) (*Patient, error) {
	if !validID(id) {
		return nil, ErrPatientNotFound
	}

	return getPatientBy(ctx, "id", id)
}

// GetPatientByFileUID returns the patient holding a file identifier.
func GetPatientByFileUID(ctx context.Context, fileUID string) (*Patient, error) {
	return getPatientBy(ctx, "file_uid", fileUID)
}

func getPatientBy(ctx context.Context, column, value string) (*Patient, error) {
	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + patientColumns + ` FROM patients WHERE ` + column + ` = $1`

	patient, err := scanPatient(p.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return patient, nil
}

// ListPatients returns every patient with visit statistics, by name.
func ListPatients(ctx context.Context) ([]PatientSummary, error) {
	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	rows, err := p.Query(ctx, `SELECT `+summaryColumns+` FROM patients_summary ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	return scanPatientSummaries(rows)
}

// SearchPatients matches term against the name, the dd-mm-yyyy birth date and
// the address, case-insensitively. An empty term lists everyone.
func SearchPatients(ctx context.Context, term string) ([]PatientSummary, error) {
	if strings.TrimSpace(term) == "" {
		return ListPatients(ctx)
	}

	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + summaryColumns + `
		FROM patients_summary
		WHERE name ILIKE $1
		   OR to_char(birth_date, 'DD-MM-YYYY') LIKE $1
		   OR address ILIKE $1
		   OR file_uid LIKE $1
		ORDER BY name ASC
	`

	rows, err := p.Query(ctx, query, containsPattern(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}

	return scanPatientSummaries(rows)
}

// SetPatientPhoto stores a data URL photo, or clears it when photo is empty.
func SetPatientPhoto(ctx context.Context, id, photo string) error {
	if !validID(id) {
		return ErrPatientNotFound
	}

	p, err := requirePool()
	if err != nil {
		return err
	}

	var value *string
	if photo != "" {
		value = &photo
	}

	tag, err := p.Exec(ctx, `UPDATE patients SET photo = $1 WHERE id = $2`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update patient photo: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}

	return nil
}

// SetObservations replaces the free-text observations of a patient.
func SetObservations(ctx context.Context, id, observations string) error {
	if !validID(id) {
		return ErrPatientNotFound
	}

	p, err := requirePool()
	if err != nil {
		return err
	}

	tag, err := p.Exec(ctx, `UPDATE patients SET observations = $1 WHERE id = $2`, strings.TrimSpace(observations), id)
	if err != nil {
		return fmt.Errorf("failed to update observations: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}

	return nil
}
