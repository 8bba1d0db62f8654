/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "time"

// Alert messages, in the order AssessHealth emits them.
const (
	AlertHighBloodPressure = "High blood pressure"
	AlertAbnormalPulse     = "Abnormal pulse rate"
	AlertAbnormalTemp      = "Abnormal body temperature"
	AlertPregnancyTest     = "Consider pregnancy test"
	AlertInvalidMensesDate = "Invalid date parsing for last menses"
)

const (
	highSystolicBP     = 120
	highDiastolicBP    = 80
	lowPulse           = 60
	highPulse          = 100
	lowTemperature     = 36.1
	highTemperature    = 37.2
	menstrualCycleDays = 28
)

// AssessHealth returns rule-based alerts for a set of vitals, evaluated on asOf.
// The order is fixed: blood pressure, pulse, temperature, menses. A malformed
// last menstrual period date becomes an alert rather than an error.
func AssessHealth(v Vitals, asOf time.Time) []string {
	alerts := []string{}

	if v.SystolicBP > highSystolicBP || v.DiastolicBP > highDiastolicBP {
		alerts = append(alerts, AlertHighBloodPressure)
	}

	if v.PulseBPM < lowPulse || v.PulseBPM > highPulse {
		alerts = append(alerts, AlertAbnormalPulse)
	}

	if v.TemperatureC < lowTemperature || v.TemperatureC > highTemperature {
		alerts = append(alerts, AlertAbnormalTemp)
	}

	if v.Gender == GenderFemale && v.LastMenstrualPeriod != "" {
		lmp, err := ParseDate(v.LastMenstrualPeriod)
		if err != nil {
			alerts = append(alerts, AlertInvalidMensesDate)
		} else if daysBetween(lmp, asOf) > menstrualCycleDays {
			alerts = append(alerts, AlertPregnancyTest)
		}
	}

	return alerts
}
