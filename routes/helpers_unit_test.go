// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/shopspring/decimal"

	"github.com/humaidq/pulse/vitals"
)

var (
	testNow     = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	errTestBoom = errors.New("boom")
)

type testSession struct {
	id    string
	data  map[interface{}]interface{}
	flash interface{}
}

func newTestSession() *testSession {
	return &testSession{
		id:   "test-session",
		data: make(map[interface{}]interface{}),
	}
}

func (s *testSession) ID() string {
	return s.id
}

func (s *testSession) RegenerateID(http.ResponseWriter, *http.Request) error {
	return nil
}

func (s *testSession) Get(key interface{}) interface{} {
	return s.data[key]
}

func (s *testSession) Set(key, val interface{}) {
	s.data[key] = val
}

func (s *testSession) SetFlash(val interface{}) {
	s.flash = val
}

func (s *testSession) Delete(key interface{}) {
	delete(s.data, key)
}

func (s *testSession) Flush() {
	s.data = make(map[interface{}]interface{})
}

func (s *testSession) Encode() ([]byte, error) {
	return nil, nil
}

func (s *testSession) HasChanged() bool {
	return true
}

type testCSRF struct {
	token string
}

func (c testCSRF) Token() string {
	return c.token
}

func (c testCSRF) ValidToken(string) bool {
	return true
}

func (c testCSRF) Error(http.ResponseWriter) {}

func (c testCSRF) Validate(flamego.Context) {}

// testTemplate records the page a handler rendered instead of executing it.
type testTemplate struct {
	status int
	name   string
}

func (t *testTemplate) HTML(status int, name string) {
	t.status = status
	t.name = name
}

func validPatientForm() url.Values {
	return url.Values{
		"name":           {"Awa Diop"},
		"birth_date":     {"20-05-1990"},
		"weight":         {"70"},
		"height":         {"1.75"},
		"systolic_bp":    {"115"},
		"diastolic_bp":   {"75"},
		"pulse":          {"72"},
		"temperature":    {"36.6"},
		"gender":         {"Male"},
		"telephone":      {"+221771234567"},
		"email":          {"awa@example.com"},
		"marital_status": {"Single"},
		"address":        {"Dakar"},
		"allergy":        {"on"},
		"glucose":        {"5.4"},
	}
}

func TestSetFlashHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		set     func(session.Session, string)
		wantTyp FlashType
	}{
		{name: "error", set: SetErrorFlash, wantTyp: FlashError},
		{name: "success", set: SetSuccessFlash, wantTyp: FlashSuccess},
		{name: "warning", set: SetWarningFlash, wantTyp: FlashWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSession()
			tt.set(s, "hello")

			msg, ok := s.flash.(FlashMessage)
			if !ok {
				t.Fatalf("flash has unexpected type: %T", s.flash)
			}

			if msg.Type != tt.wantTyp || msg.Message != "hello" {
				t.Fatalf("unexpected flash message: %#v", msg)
			}
		})
	}
}

func TestFlashInjector(t *testing.T) {
	t.Parallel()

	handler, ok := FlashInjector().(func(session.Flash, template.Data))
	if !ok {
		t.Fatalf("unexpected FlashInjector handler type")
	}

	data := template.Data{}
	handler(FlashMessage{Type: FlashError, Message: "oops"}, data)

	if got, ok := data["Flash"].(FlashMessage); !ok || got.Message != "oops" {
		t.Fatalf("unexpected Flash value: %#v", data["Flash"])
	}

	empty := template.Data{}
	handler(nil, empty)

	if _, ok := empty["Flash"]; ok {
		t.Fatalf("expected no Flash without a pending message")
	}
}

func TestCSRFInjector(t *testing.T) {
	t.Parallel()

	handler, ok := CSRFInjector().(func(csrf.CSRF, template.Data))
	if !ok {
		t.Fatalf("unexpected CSRFInjector handler type")
	}

	data := template.Data{}
	handler(testCSRF{token: "csrf-123"}, data)

	if got, ok := data["csrf_token"].(string); !ok || got != "csrf-123" {
		t.Fatalf("unexpected csrf_token value: %#v", data["csrf_token"])
	}
}

func TestSiteTitleInjector(t *testing.T) {
	t.Setenv(siteTitleEnvVar, "  Clinique Pulse  ")

	handler, ok := SiteTitleInjector().(func(template.Data))
	if !ok {
		t.Fatalf("unexpected SiteTitleInjector handler type")
	}

	data := template.Data{}
	handler(data)

	if data["SiteTitle"] != "Clinique Pulse" {
		t.Fatalf("unexpected site title: %#v", data["SiteTitle"])
	}

	t.Setenv(siteTitleEnvVar, "")

	fallback := template.Data{}
	SiteTitleInjector().(func(template.Data))(fallback)

	if fallback["SiteTitle"] != defaultSiteTitle {
		t.Fatalf("expected default title, got %#v", fallback["SiteTitle"])
	}
}

func TestNoCacheHeaders(t *testing.T) {
	t.Parallel()

	f := flamego.New()
	f.Use(NoCacheHeaders())
	f.Get("/", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
	})
	f.Post("/", func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNoContent)
	})

	getReq := httptest.NewRequest(http.MethodGet, "/", nil)
	getRec := httptest.NewRecorder()
	f.ServeHTTP(getRec, getReq)

	if got := getRec.Header().Get("Cache-Control"); got != "no-store, max-age=0" {
		t.Fatalf("unexpected Cache-Control for GET: %q", got)
	}

	if got := getRec.Header().Get("Pragma"); got != "no-cache" {
		t.Fatalf("unexpected Pragma for GET: %q", got)
	}

	postReq := httptest.NewRequest(http.MethodPost, "/", nil)
	postRec := httptest.NewRecorder()
	f.ServeHTTP(postRec, postReq)

	if got := postRec.Header().Get("Cache-Control"); got != "" {
		t.Fatalf("expected no Cache-Control for POST, got %q", got)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	withXFF := &flamego.Request{Request: httptest.NewRequest(http.MethodGet, "http://example.test", nil)}
	withXFF.Header.Set("X-Forwarded-For", " 203.0.113.4, 198.51.100.2 ")

	withXFF.RemoteAddr = "10.0.0.1:1234"
	if got := clientIP(withXFF); got != "203.0.113.4" {
		t.Fatalf("expected X-Forwarded-For IP, got %q", got)
	}

	withRealIP := &flamego.Request{Request: httptest.NewRequest(http.MethodGet, "http://example.test", nil)}
	withRealIP.Header.Set("X-Real-IP", "198.51.100.9")

	if got := clientIP(withRealIP); got != "198.51.100.9" {
		t.Fatalf("expected X-Real-IP, got %q", got)
	}

	withRemoteAddr := &flamego.Request{Request: httptest.NewRequest(http.MethodGet, "http://example.test", nil)}

	withRemoteAddr.RemoteAddr = "192.0.2.10:8080"
	if got := clientIP(withRemoteAddr); got != "192.0.2.10" {
		t.Fatalf("expected host from RemoteAddr, got %q", got)
	}

	withRawRemoteAddr := &flamego.Request{Request: httptest.NewRequest(http.MethodGet, "http://example.test", nil)}

	withRawRemoteAddr.RemoteAddr = "not-a-host-port"
	if got := clientIP(withRawRemoteAddr); got != "not-a-host-port" {
		t.Fatalf("expected raw RemoteAddr fallback, got %q", got)
	}
}

func TestParsePatientForm(t *testing.T) {
	t.Parallel()

	input, err := parsePatientForm(validPatientForm(), testNow)
	if err != nil {
		t.Fatalf("parsePatientForm failed: %v", err)
	}

	if input.Name != "Awa Diop" || input.Vitals.Gender != vitals.GenderMale {
		t.Fatalf("unexpected input: %#v", input)
	}
	if !input.BirthDate.Equal(time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected birth date: %v", input.BirthDate)
	}
	if input.Vitals.HeightM != 1.75 || input.Vitals.PulseBPM != 72 {
		t.Fatalf("unexpected vitals: %#v", input.Vitals)
	}
	if !input.History.Allergy || input.History.Cancer {
		t.Fatalf("unexpected history: %#v", input.History)
	}
	if input.Glucose == nil || *input.Glucose != 5.4 || input.Cholesterol != nil {
		t.Fatalf("unexpected lab values: %v %v", input.Glucose, input.Cholesterol)
	}
}

func TestParsePatientFormValidation(t *testing.T) {
	t.Parallel()

	form := validPatientForm()
	form.Set("height", "3")
	form.Set("pulse", "abc")
	form.Set("marital_status", "Divorced")

	_, err := parsePatientForm(form, testNow)

	var verr *vitals.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	want := "The following fields are invalid: Height, Pulse, Marital Status"
	if got := formErrorMessage(err); got != want {
		t.Fatalf("unexpected message %q", got)
	}

	form = validPatientForm()
	form.Set("uric_acid", "-1")

	if _, err := parsePatientForm(form, testNow); !errors.Is(err, errInvalidMeasurement) {
		t.Fatalf("expected errInvalidMeasurement, got %v", err)
	}
}

func TestFormErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{vitals.ErrInvalidNumericInput, "Please enter valid numbers for the measurements"},
		{vitals.ErrInvalidDateFormat, "Dates must be in dd-mm-yyyy format"},
		{vitals.ErrInvalidGender, "Please select a gender"},
		{errTestBoom, "Invalid form input"},
	}

	for _, tt := range tests {
		if got := formErrorMessage(tt.err); got != tt.want {
			t.Fatalf("formErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestParseVisitForm(t *testing.T) {
	t.Parallel()

	input, err := parseVisitForm(url.Values{
		"visit_date":   {"01-03-2024"},
		"reason":       {" Fever "},
		"systolic_bp":  {"130"},
		"diastolic_bp": {""},
		"weight":       {"71.5"},
	}, testNow)
	if err != nil {
		t.Fatalf("parseVisitForm failed: %v", err)
	}

	if !input.VisitDate.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected visit date: %v", input.VisitDate)
	}
	if input.Reason != "Fever" || input.SystolicBP == nil || *input.SystolicBP != 130 || input.DiastolicBP != nil {
		t.Fatalf("unexpected visit input: %#v", input)
	}

	defaulted, err := parseVisitForm(url.Values{}, testNow)
	if err != nil || !defaulted.VisitDate.Equal(testNow) {
		t.Fatalf("expected visit date to default to now, got %v (%v)", defaulted.VisitDate, err)
	}

	if _, err := parseVisitForm(url.Values{"visit_date": {"2024-03-01"}}, testNow); !errors.Is(err, errInvalidVisitDate) {
		t.Fatalf("expected errInvalidVisitDate, got %v", err)
	}
}

func TestParseInvoiceItemForm(t *testing.T) {
	t.Parallel()

	input, err := parseInvoiceItemForm(url.Values{
		"description": {"Consultation"},
		"unit_price":  {"15000.50"},
	})
	if err != nil {
		t.Fatalf("parseInvoiceItemForm failed: %v", err)
	}
	if input.Quantity != 1 || !input.UnitPrice.Equal(decimal.RequireFromString("15000.50")) {
		t.Fatalf("unexpected item: %#v", input)
	}

	tests := []struct {
		form url.Values
		want error
	}{
		{url.Values{"unit_price": {"1"}}, errMissingField},
		{url.Values{"description": {"x"}, "quantity": {"0"}, "unit_price": {"1"}}, errInvalidQuantity},
		{url.Values{"description": {"x"}, "unit_price": {"abc"}}, errInvalidPrice},
		{url.Values{"description": {"x"}, "unit_price": {"-5"}}, errInvalidPrice},
	}

	for _, tt := range tests {
		if _, err := parseInvoiceItemForm(tt.form); !errors.Is(err, tt.want) {
			t.Fatalf("parseInvoiceItemForm(%v): expected %v, got %v", tt.form, tt.want, err)
		}
	}
}
