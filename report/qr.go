/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package report

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/humaidq/pulse/db"
)

// QRSize is the edge length in pixels of generated QR PNGs.
const QRSize = 256

// PatientCard is the subset of a patient record encoded in its QR code.
type PatientCard struct {
	Name          string
	FileUID       string
	BirthDate     string
	Gender        string
	Telephone     string
	MaritalStatus string
	Allergies     bool
	Surgeries     bool
	Cancer        bool
	Hypertension  bool
}

// CardFromPatient builds the QR card of a stored patient.
func CardFromPatient(p *db.Patient) PatientCard {
	return PatientCard{
		Name:          p.Name,
		FileUID:       p.FileUID,
		BirthDate:     p.BirthDateDisplay(),
		Gender:        string(p.Gender),
		Telephone:     p.Telephone,
		MaritalStatus: p.MaritalStatus,
		Allergies:     p.History.Allergy,
		Surgeries:     p.History.Surgery,
		Cancer:        p.History.Cancer,
		Hypertension:  p.History.Hypertension,
	}
}

// Text renders the card as the newline separated text stored in the QR code.
func (c PatientCard) Text() string {
	lines := []string{
		"Name: " + c.Name,
		"ID: " + c.FileUID,
		"Birth Date: " + c.BirthDate,
		"Gender: " + c.Gender,
		"Telephone: " + c.Telephone,
		"Marital Status: " + c.MaritalStatus,
		"Allergies: " + yesNo(c.Allergies),
		"Surgeries: " + yesNo(c.Surgeries),
		"Cancer: " + yesNo(c.Cancer),
		"Hypertension: " + yesNo(c.Hypertension),
	}

	return strings.Join(lines, "\n")
}

// PatientQRCode encodes a patient card as a PNG QR code with the highest
// error correction level.
func PatientQRCode(card PatientCard) ([]byte, error) {
	png, err := qrcode.Encode(card.Text(), qrcode.High, QRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patient QR code: %w", err)
	}

	return png, nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}

	return "No"
}
