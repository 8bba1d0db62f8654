/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/humaidq/pulse/vitals"
)

// MedicalHistory holds the yes/no history and lifestyle flags of a patient.
type MedicalHistory struct {
	Diabetes     bool `db:"diabetes"`
	Kidney       bool `db:"kidney"`
	Epilepsy     bool `db:"epilepsy"`
	Allergy      bool `db:"allergy"`
	Asthma       bool `db:"asthma"`
	Heart        bool `db:"heart"`
	Cancer       bool `db:"cancer"`
	Surgery      bool `db:"surgery"`
	Stroke       bool `db:"stroke"`
	Hypertension bool `db:"hypertension"`
	Hypotension  bool `db:"hypotension"`
	Alcohol      bool `db:"alcohol"`
	Sports       bool `db:"sports"`
	Smoking      bool `db:"smoking"`
}

// HistoryField pairs a history flag with its form name and label.
type HistoryField struct {
	Name  string
	Label string
	Value bool
}

// Fields lists the flags in display order.
func (h MedicalHistory) Fields() []HistoryField {
	return []HistoryField{
		{Name: "diabetes", Label: "Diabetes", Value: h.Diabetes},
		{Name: "kidney", Label: "Kidney disease", Value: h.Kidney},
		{Name: "epilepsy", Label: "Epilepsy", Value: h.Epilepsy},
		{Name: "allergy", Label: "Allergies", Value: h.Allergy},
		{Name: "asthma", Label: "Asthma", Value: h.Asthma},
		{Name: "heart", Label: "Heart disease", Value: h.Heart},
		{Name: "cancer", Label: "Cancer", Value: h.Cancer},
		{Name: "surgery", Label: "Surgeries", Value: h.Surgery},
		{Name: "stroke", Label: "Stroke", Value: h.Stroke},
		{Name: "hypertension", Label: "Hypertension", Value: h.Hypertension},
		{Name: "hypotension", Label: "Hypotension", Value: h.Hypotension},
		{Name: "alcohol", Label: "Alcohol", Value: h.Alcohol},
		{Name: "sports", Label: "Sports", Value: h.Sports},
		{Name: "smoking", Label: "Smoking", Value: h.Smoking},
	}
}

// Patient is one row of the patients table.
type Patient struct {
	ID            uuid.UUID      `db:"id"`
	FileUID       string         `db:"file_uid"`
	Name          string         `db:"name"`
	BirthDate     time.Time      `db:"birth_date"`
	RegisteredOn  time.Time      `db:"registered_on"`
	Age           int            `db:"age"`
	WeightKg      float64        `db:"weight_kg"`
	HeightM       float64        `db:"height_m"`
	BMI           *float64       `db:"bmi"`
	WeightStatus  *string        `db:"weight_status"`
	SystolicBP    int            `db:"systolic_bp"`
	DiastolicBP   int            `db:"diastolic_bp"`
	Pulse         int            `db:"pulse"`
	TemperatureC  float64        `db:"temperature_c"`
	Glucose       *float64       `db:"glucose"`
	Cholesterol   *float64       `db:"cholesterol"`
	UricAcid      *float64       `db:"uric_acid"`
	Gender        vitals.Gender  `db:"gender"`
	LastMenses    *time.Time     `db:"last_menses"`
	Photo         *string        `db:"photo"`
	Address       string         `db:"address"`
	Email         string         `db:"email"`
	Profession    string         `db:"profession"`
	Telephone     string         `db:"telephone"`
	MaritalStatus string         `db:"marital_status"`
	History       MedicalHistory `db:"-"`
	IdealWeightKg *float64       `db:"ideal_weight_kg"`
	Alerts        []string       `db:"alerts"`
	Observations  string         `db:"observations"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// Vitals returns the measurements recorded at registration.
func (p *Patient) Vitals() vitals.Vitals {
	v := vitals.Vitals{
		WeightKg:     p.WeightKg,
		HeightM:      p.HeightM,
		SystolicBP:   p.SystolicBP,
		DiastolicBP:  p.DiastolicBP,
		PulseBPM:     p.Pulse,
		TemperatureC: p.TemperatureC,
		Gender:       p.Gender,
	}
	if p.LastMenses != nil {
		v.LastMenstrualPeriod = vitals.FormatDate(*p.LastMenses)
	}

	return v
}

// Metrics returns the derived values stored with the record.
func (p *Patient) Metrics() vitals.Metrics {
	m := vitals.Metrics{Age: p.Age, Alerts: p.Alerts}
	if p.BMI != nil {
		m.BMI, m.BMIDefined = *p.BMI, true
	}
	if p.WeightStatus != nil {
		m.WeightStatus = vitals.WeightStatus(*p.WeightStatus)
	}
	if p.IdealWeightKg != nil {
		m.IdealBodyWeightKg, m.IdealBodyWeightDefined = *p.IdealWeightKg, true
	}

	return m
}

// CurrentAge returns the age at a given date, which drifts from the stored
// registration age over time.
func (p *Patient) CurrentAge(at time.Time) int {
	return vitals.AgeAt(p.BirthDate, at)
}

// BirthDateDisplay renders the birth date as dd-mm-yyyy.
func (p *Patient) BirthDateDisplay() string {
	return vitals.FormatDate(p.BirthDate)
}

// LastMensesDisplay renders the last menstrual period, or an empty string.
func (p *Patient) LastMensesDisplay() string {
	if p.LastMenses == nil {
		return ""
	}

	return vitals.FormatDate(*p.LastMenses)
}

// PatientSummary is a row of the patients_summary view.
type PatientSummary struct {
	ID            uuid.UUID     `db:"id"`
	FileUID       string        `db:"file_uid"`
	Name          string        `db:"name"`
	BirthDate     time.Time     `db:"birth_date"`
	Gender        vitals.Gender `db:"gender"`
	Age           int           `db:"age"`
	Telephone     string        `db:"telephone"`
	Address       string        `db:"address"`
	BMI           *float64      `db:"bmi"`
	WeightStatus  *string       `db:"weight_status"`
	Alerts        []string      `db:"alerts"`
	VisitCount    int           `db:"visit_count"`
	LastVisitDate *time.Time    `db:"last_visit_date"`
}

// BirthDateDisplay renders the birth date as dd-mm-yyyy.
func (s PatientSummary) BirthDateDisplay() string {
	return vitals.FormatDate(s.BirthDate)
}

// PatientInput is everything a registration or edit form supplies.
type PatientInput struct {
	Name          string
	BirthDate     time.Time
	Vitals        vitals.Vitals
	Glucose       *float64
	Cholesterol   *float64
	UricAcid      *float64
	Address       string
	Email         string
	Profession    string
	Telephone     string
	MaritalStatus string
	History       MedicalHistory
	Observations  string
}

// Visit is a consultation recorded for a patient.
type Visit struct {
	ID          uuid.UUID `db:"id"`
	PatientID   uuid.UUID `db:"patient_id"`
	VisitDate   time.Time `db:"visit_date"`
	Reason      string    `db:"reason"`
	Diagnosis   string    `db:"diagnosis"`
	Treatment   string    `db:"treatment"`
	SystolicBP  *int      `db:"systolic_bp"`
	DiastolicBP *int      `db:"diastolic_bp"`
	WeightKg    *float64  `db:"weight_kg"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// VisitDateDisplay renders the visit date as dd-mm-yyyy.
func (v Visit) VisitDateDisplay() string {
	return vitals.FormatDate(v.VisitDate)
}

// VisitSummary is a visit joined with its patient, as returned by searches.
type VisitSummary struct {
	Visit
	PatientName    string `db:"patient_name"`
	PatientFileUID string `db:"patient_file_uid"`
}

// VisitInput represents input for creating a visit
type VisitInput struct {
	VisitDate   time.Time
	Reason      string
	Diagnosis   string
	Treatment   string
	SystolicBP  *int
	DiastolicBP *int
	WeightKg    *float64
}

// InvoiceItem is a billed line attached to a visit.
type InvoiceItem struct {
	ID          uuid.UUID       `db:"id"`
	VisitID     uuid.UUID       `db:"visit_id"`
	Description string          `db:"description"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	CreatedAt   time.Time       `db:"created_at"`
}

// Total returns quantity × unit price.
func (i InvoiceItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// InvoiceItemInput represents input for adding an invoice item
type InvoiceItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// BusinessSettings describes the clinic printed on reports and invoices.
type BusinessSettings struct {
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	Website   string    `db:"website"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	TaxID     string    `db:"tax_id"`
	Logo      *string   `db:"logo"`
	UpdatedAt time.Time `db:"updated_at"`
}

// MissingFields lists the required settings that are still empty.
func (b BusinessSettings) MissingFields() []string {
	var missing []string

	required := []struct {
		label string
		value string
	}{
		{"Business Name", b.Name},
		{"Business Address", b.Address},
		{"Business Email", b.Email},
		{"Business Phone", b.Phone},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.label)
		}
	}

	return missing
}
