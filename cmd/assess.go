/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/humaidq/pulse/vitals"
)

// CmdAssess computes the derived metrics of one set of measurements without
// touching the database.
var CmdAssess = &cli.Command{
	Name:  "assess",
	Usage: "Compute BMI, ideal weight, alerts and a sample file ID from measurements",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "weight", Usage: "weight in kg", Required: true},
		&cli.StringFlag{Name: "height", Usage: "height in metres", Required: true},
		&cli.StringFlag{Name: "systolic", Usage: "systolic blood pressure (mmHg)", Required: true},
		&cli.StringFlag{Name: "diastolic", Usage: "diastolic blood pressure (mmHg)", Required: true},
		&cli.StringFlag{Name: "pulse", Usage: "pulse (bpm)", Required: true},
		&cli.StringFlag{Name: "temperature", Usage: "body temperature (°C)", Required: true},
		&cli.StringFlag{Name: "birth-date", Usage: "birth date (dd-mm-yyyy)", Required: true},
		&cli.StringFlag{Name: "gender", Usage: "Male or Female", Required: true},
		&cli.StringFlag{Name: "last-menses", Usage: "last menstrual period (dd-mm-yyyy), female patients only"},
		&cli.StringFlag{Name: "as-of", Usage: "evaluation date (dd-mm-yyyy), defaults to today"},
	},
	Action: assess,
}

func assess(_ context.Context, cmd *cli.Command) error {
	asOf := time.Now()

	if raw := cmd.String("as-of"); raw != "" {
		parsed, err := vitals.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("as-of: %w", err)
		}
		asOf = parsed
	}

	req, err := vitals.ParseForm(vitals.Form{
		Weight:              cmd.String("weight"),
		Height:              cmd.String("height"),
		SystolicBP:          cmd.String("systolic"),
		DiastolicBP:         cmd.String("diastolic"),
		Pulse:               cmd.String("pulse"),
		Temperature:         cmd.String("temperature"),
		BirthDate:           cmd.String("birth-date"),
		Gender:              cmd.String("gender"),
		LastMenstrualPeriod: cmd.String("last-menses"),
	}, asOf)
	if err != nil {
		return err
	}

	metrics, err := vitals.Calculate(req)
	if err != nil {
		return err
	}

	id, err := vitals.GeneratePatientIdentifier(req.Vitals.Gender, req.BirthDate, asOf)
	if err != nil {
		return err
	}

	return writeAssessment(cmd.Root().Writer, metrics, id)
}

func writeAssessment(w io.Writer, m vitals.Metrics, id string) error {
	_, err := fmt.Fprintf(w,
		"Age: %d\nBMI: %s\nWeight status: %s\nIdeal body weight: %s\nAlerts: %s\nSample file ID: %s\n",
		m.Age, m.BMIDisplay(), m.WeightStatusDisplay(), m.IdealBodyWeightDisplay(), m.AlertText(), id,
	)

	return err
}
