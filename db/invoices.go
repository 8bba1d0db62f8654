/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"strings"
)

// Validate reports whether the item can be billed.
func (in InvoiceItemInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidInvoiceItem)
	case in.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInvoiceItem)
	case in.UnitPrice.IsNegative():
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidInvoiceItem)
	}

	return nil
}

// AddInvoiceItem bills an item on a visit and returns the item's ID.
func AddInvoiceItem(ctx context.Context, visitID string, input InvoiceItemInput) (string, error) {
	if err := input.Validate(); err != nil {
		return "", err
	}

	p, err := requirePool()
	if err != nil {
		return "", err
	}

	if _, err := GetVisit(ctx, visitID); err != nil {
		return "", err
	}

	query := `
		INSERT INTO invoice_items (visit_id, description, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id string

	err = p.QueryRow(ctx, query,
		visitID, strings.TrimSpace(input.Description), input.Quantity, input.UnitPrice.Round(2),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to add invoice item: %w", err)
	}

	return id, nil
}

// ListInvoiceItems returns the items billed on a visit in entry order.
func ListInvoiceItems(ctx context.Context, visitID string) ([]InvoiceItem, error) {
	p, err := requirePool()
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, visit_id, description, quantity, unit_price, created_at
		FROM invoice_items
		WHERE visit_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := p.Query(ctx, query, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	defer rows.Close()

	var items []InvoiceItem
	for rows.Next() {
		var item InvoiceItem
		if err := rows.Scan(&item.ID, &item.VisitID, &item.Description, &item.Quantity, &item.UnitPrice, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return items, nil
}

// DeleteInvoiceItem removes an item from its visit.
func DeleteInvoiceItem(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrInvoiceItemNotFound
	}

	p, err := requirePool()
	if err != nil {
		return err
	}

	tag, err := p.Exec(ctx, `DELETE FROM invoice_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrInvoiceItemNotFound
	}

	return nil
}
