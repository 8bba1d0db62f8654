// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package logging

import "testing"

func TestLoggerInitializers(t *testing.T) {
	t.Parallel()

	Init()
	for _, source := range []string{SourceApp, SourceDB, SourceReport} {
		if l := Logger(source); l == nil {
			t.Fatalf("Logger(%q) returned nil", source)
		}
	}
	if l := StdLogger(SourceWeb); l == nil {
		t.Fatal("StdLogger returned nil")
	}
}
