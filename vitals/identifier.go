/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vitals

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	identifierSuffixMin = 1000
	identifierSuffixMax = 9999
)

// GeneratePatientIdentifier builds a file identifier from the patient's sex,
// age on asOf and birth date, followed by a random four digit suffix. The
// suffix is not cryptographically random and two patients with the same sex
// and birth date collide with probability 1/9000; callers that need
// uniqueness must check it against their store.
func GeneratePatientIdentifier(gender Gender, birthDate string, asOf time.Time) (string, error) {
	suffix := identifierSuffixMin + rand.IntN(identifierSuffixMax-identifierSuffixMin+1)
	return buildIdentifier(gender, birthDate, asOf, suffix)
}

func buildIdentifier(gender Gender, birthDate string, asOf time.Time, suffix int) (string, error) {
	born, err := ParseDate(birthDate)
	if err != nil {
		return "", err
	}

	sexCode := "2"
	if gender == GenderMale {
		sexCode = "1"
	}

	return fmt.Sprintf("%s%02d%s%04d", sexCode, AgeAt(born, asOf), born.Format("020106"), suffix), nil
}
