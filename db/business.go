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

// EnsureBusinessSettings creates the single settings row if it is missing.
func EnsureBusinessSettings(ctx context.Context) error {
	p, err := requirePool()
	if err != nil {
		return err
	}

	if _, err := p.Exec(ctx, `INSERT INTO business_settings (id) VALUES (true) ON CONFLICT (id) DO NOTHING`); err != nil {
		return fmt.Errorf("failed to ensure business settings: %w", err)
	}

	return nil
}

// GetBusinessSettings returns the clinic details. A missing row yields empty
// settings.
func GetBusinessSettings(ctx context.Context) (*BusinessSettings, error) {
	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT name, address, website, email, phone, tax_id, logo, updated_at
		FROM business_settings
		WHERE id
	`

	var b BusinessSettings

	err = p.QueryRow(ctx, query).Scan(&b.Name, &b.Address, &b.Website, &b.Email, &b.Phone, &b.TaxID, &b.Logo, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &BusinessSettings{}, nil
		}
		return nil, fmt.Errorf("failed to get business settings: %w", err)
	}

	return &b, nil
}

// SaveBusinessSettings stores the clinic details. A nil logo keeps the
// existing one.
func SaveBusinessSettings(ctx context.Context, b BusinessSettings) error {
	p, err := requirePool()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO business_settings (id, name, address, website, email, phone, tax_id, logo, updated_at)
		VALUES (true, $1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			website = EXCLUDED.website,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			tax_id = EXCLUDED.tax_id,
			logo = COALESCE(EXCLUDED.logo, business_settings.logo),
			updated_at = now()
	`

	_, err = p.Exec(ctx, query,
		strings.TrimSpace(b.Name), strings.TrimSpace(b.Address), strings.TrimSpace(b.Website),
		strings.TrimSpace(b.Email), strings.TrimSpace(b.Phone), strings.TrimSpace(b.TaxID), b.Logo,
	)
	if err != nil {
		return fmt.Errorf("failed to save business settings: %w", err)
	}

	logger.Info("Saved business settings")

	return nil
}
