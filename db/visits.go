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

	"github.com/jackc/pgx/v5"
)

const visitColumns = `
	v.id, v.patient_id, v.visit_date, v.reason, v.diagnosis, v.treatment,
	v.systolic_bp, v.diastolic_bp, v.weight_kg, v.created_at, v.updated_at
`

func visitScanTargets(v *Visit) []any {
	return []any{
		&v.ID, &v.PatientID, &v.VisitDate, &v.Reason, &v.Diagnosis, &v.Treatment,
		&v.SystolicBP, &v.DiastolicBP, &v.WeightKg, &v.CreatedAt, &v.UpdatedAt,
	}
}

// CreateVisit records a consultation for a patient and returns its ID.
func CreateVisit(ctx context.Context, patientID string, input VisitInput) (string, error) {
	p, err := requirePool()
	if err != nil {
		return "", err
	}

	if _, err := GetPatient(ctx, patientID); err != nil {
		return "", err
	}

	query := `
		INSERT INTO visits (patient_id, visit_date, reason, diagnosis, treatment, systolic_bp, diastolic_bp, weight_kg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id string

	err = p.QueryRow(ctx, query,
		patientID, input.VisitDate,
		strings.TrimSpace(input.Reason), strings.TrimSpace(input.Diagnosis), strings.TrimSpace(input.Treatment),
		input.SystolicBP, input.DiastolicBP, input.WeightKg,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create visit: %w", err)
	}

	logger.Info("Recorded visit", "id", id, "patient_id", patientID)

	return id, nil
}

// GetVisit returns a visit together with its patient's name and file UID.
func GetVisit(ctx context.Context, id string) (*VisitSummary, error) {
	if !validID(id) {
		return nil, ErrVisitNotFound
	}

	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + visitColumns + `, p.name, p.file_uid
		FROM visits v
		JOIN patients p ON p.id = v.patient_id
		WHERE v.id = $1
	`

	var visit VisitSummary

	targets := append(visitScanTargets(&visit.Visit), &visit.PatientName, &visit.PatientFileUID)
	if err := p.QueryRow(ctx, query, id).Scan(targets...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}

	return &visit, nil
}

// ListVisits returns a patient's visits, most recent first.
func ListVisits(ctx context.Context, patientID string) ([]Visit, error) {
	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + visitColumns + `
		FROM visits v
		WHERE v.patient_id = $1
		ORDER BY v.visit_date DESC, v.created_at DESC
	`

	rows, err := p.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(visitScanTargets(&v)...); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}

	return visits, nil
}

// SearchVisits matches term against the patient name or file UID. An empty
// term returns every visit.
func SearchVisits(ctx context.Context, term string) ([]VisitSummary, error) {
	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + visitColumns + `, p.name, p.file_uid
		FROM visits v
		JOIN patients p ON p.id = v.patient_id
		WHERE p.name ILIKE $1 OR p.file_uid LIKE $1
		ORDER BY v.visit_date DESC, v.created_at DESC
	`

	rows, err := p.Query(ctx, query, containsPattern(term))
	if err != nil {
		return nil, fmt.Errorf("failed to search visits: %w", err)
	}
	defer rows.Close()

	var visits []VisitSummary
	for rows.Next() {
		var v VisitSummary
		targets := append(visitScanTargets(&v.Visit), &v.PatientName, &v.PatientFileUID)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}

	return visits, nil
}

// DeleteVisit deletes a visit and its invoice items.
func DeleteVisit(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrVisitNotFound
	}

	p, err := requirePool()
	if err != nil {
		return err
	}

	tag, err := p.Exec(ctx, `DELETE FROM visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrVisitNotFound
	}

	return nil
}
