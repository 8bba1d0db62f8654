/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import "math"

const inchesPerMetre = 39.3701

// CalculateBMI returns weight / height², rounded to two decimals. The second
// return value is false when the height is zero and the BMI is undefined.
func CalculateBMI(weightKg, heightM float64) (float64, bool) {
	if heightM == 0 {
		return 0, false
	}

	return round2(weightKg / (heightM * heightM)), true
}

// ClassifyWeightStatus maps a BMI onto its weight band. Bands are evaluated in
// order, so values in [24.9, 25) land in Overweight.
func ClassifyWeightStatus(bmi float64) WeightStatus {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 24.9:
		return Normal
	case bmi < 29.9:
		return Overweight
	default:
		return Obese
	}
}

// CalculateIdealBodyWeight applies the Devine formula. Heights below roughly
// 1.52 m give meaningless (even negative) results and are not rejected here.
// A zero height is reported as undefined.
func CalculateIdealBodyWeight(heightM float64, gender Gender) (float64, bool) {
	if heightM == 0 {
		return 0, false
	}

	inches := heightM * inchesPerMetre

	base := 45.5
	if gender == GenderMale {
		base = 50
	}

	return round2(base + 2.3*(inches-60)), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
