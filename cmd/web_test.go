// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flamego/flamego"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/pulse/vitals"
)

func TestSafeImageURLDataImageRendersWithoutTemplateSentinel(t *testing.T) {
	t.Parallel()

	photo := "data:image/png;base64,aGVsbG8="

	tpl, err := template.New("photo").Funcs(template.FuncMap{
		"safeImageURL": safeImageURL,
	}).Parse(`<img src="{{ safeImageURL .Photo }}">`)
	if err != nil {
		t.Fatalf("failed to parse template: %v", err)
	}

	var rendered strings.Builder

	if err := tpl.Execute(&rendered, map[string]*string{"Photo": &photo}); err != nil {
		t.Fatalf("failed to execute template: %v", err)
	}

	out := rendered.String()
	if strings.Contains(out, "#ZgotmplZ") {
		t.Fatalf("expected rendered html without template sentinel, got %q", out)
	}

	if !strings.Contains(out, `src="data:image/png;base64,aGVsbG8="`) {
		t.Fatalf("expected rendered html to contain data image URL, got %q", out)
	}
}

func TestSafeImageURLRejectsUnsafeScheme(t *testing.T) {
	t.Parallel()

	photo := "javascript:alert(1)"
	if got := safeImageURL(&photo); got != "" {
		t.Fatalf("expected unsafe image URL to be rejected, got %q", got)
	}

	if got := safeImageURL(nil); got != "" {
		t.Fatalf("expected nil photo to render empty, got %q", got)
	}
}

func TestSafeImageURLRejectsUnsupportedDataImageType(t *testing.T) {
	t.Parallel()

	photo := "data:image/svg+xml;base64,PHN2Zz48L3N2Zz4="
	if got := safeImageURL(&photo); got != "" {
		t.Fatalf("expected unsupported data image URL to be rejected, got %q", got)
	}
}

func TestConfigureEmptyNotFoundHandlerReturnsStatusOnly(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	configureEmptyNotFoundHandler(f)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()
	f.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty 404 body, got %q", rec.Body.String())
	}
}

func TestOptionalFormatters(t *testing.T) {
	t.Parallel()

	v, n := 5.456, 120
	if got := optionalNumber(&v); got != "5.46" {
		t.Fatalf("unexpected optionalNumber: %q", got)
	}

	if got := optionalNumber(nil); got != "-" {
		t.Fatalf("unexpected optionalNumber(nil): %q", got)
	}

	if got := optionalInt(&n); got != "120" {
		t.Fatalf("unexpected optionalInt: %q", got)
	}
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr error
	}{
		{value: "", want: false},
		{value: "dev", want: false},
		{value: " Production ", want: true},
		{value: "prod", want: true},
		{value: "staging", wantErr: errInvalidRuntimeEnv},
	}

	for _, tt := range tests {
		t.Setenv(runtimeEnvVar, tt.value)

		got, err := isProduction()
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Fatalf("isProduction(%q) = %v, %v", tt.value, got, err)
		}
	}
}

func TestCSRFSecret(t *testing.T) {
	t.Setenv(csrfSecretVar, "")

	if _, err := csrfSecret(true); !errors.Is(err, errCSRFSecretRequired) {
		t.Fatalf("expected errCSRFSecretRequired, got %v", err)
	}

	generated, err := csrfSecret(false)
	if err != nil || len(generated) != 64 {
		t.Fatalf("expected random hex secret, got %q (%v)", generated, err)
	}

	t.Setenv(csrfSecretVar, "configured")

	if got, err := csrfSecret(true); err != nil || got != "configured" {
		t.Fatalf("expected configured secret, got %q (%v)", got, err)
	}
}

func TestWriteAssessmentZeroHeight(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := writeAssessment(&buf, vitals.Metrics{Age: 40, Alerts: []string{}}, "1400101841234")
	if err != nil {
		t.Fatalf("writeAssessment failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"BMI: N/A", "Weight status: N/A", "Ideal body weight: N/A", "Alerts: none"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestAssessCommand(t *testing.T) {
	var buf bytes.Buffer

	root := &cli.Command{
		Name:     "pulse",
		Writer:   &buf,
		Commands: []*cli.Command{CmdAssess},
	}

	err := root.Run(context.Background(), []string{
		"pulse", "assess",
		"--weight", "70", "--height", "1.75",
		"--systolic", "115", "--diastolic", "75",
		"--pulse", "110", "--temperature", "36.6",
		"--birth-date", "20-05-1990", "--gender", "Male",
		"--as-of", "15-03-2024",
	})
	if err != nil {
		t.Fatalf("assess failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Age: 33",
		"BMI: 22.86",
		"Weight status: Normal",
		"Ideal body weight: 70.46 kg",
		"Alerts: Abnormal pulse rate",
		"Sample file ID: 133200590",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
