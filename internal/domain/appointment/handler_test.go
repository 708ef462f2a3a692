package appointment

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/medcare/medcare/internal/platform/router"
)

func newTestDispatcher() *router.Dispatcher {
	svc, _ := newTestService()
	b := router.NewBuilder()
	NewHandler(svc).RegisterRoutes(b)
	return router.NewDispatcher(b.Build())
}

func do(d *router.Dispatcher, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, req)
	return rec
}

const checkup = `{"patientId":1,"patientName":"John Smith","doctorId":2,"doctorName":"Dr. Sarah Johnson",` +
	`"date":"2024-01-25","time":"10:00","duration":30,"type":"CONSULTATION","notes":"Regular checkup"}`

func TestHandler_GetAppointment_NotFound(t *testing.T) {
	d := newTestDispatcher()

	rec := do(d, http.MethodGet, "/api/appointments/999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"Appointment not found"}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS headers on error responses")
	}
}

func TestHandler_CreateAppointment(t *testing.T) {
	d := newTestDispatcher()

	rec := do(d, http.MethodPost, "/api/appointments", checkup)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	checks := map[string]string{
		"time":   "10:00:00",
		"date":   "2024-01-25",
		"type":   "consultation",
		"status": "scheduled",
		"notes":  "Regular checkup",
	}
	for path, want := range checks {
		if got := gjson.Get(body, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
	if gjson.Get(body, "duration").Int() != 30 {
		t.Errorf("unexpected duration in %s", body)
	}
}

func TestHandler_CreateAppointment_BadRequest(t *testing.T) {
	d := newTestDispatcher()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing time", strings.Replace(checkup, `"time":"10:00",`, "", 1), "Appointment time is required"},
		{"bad duration", strings.Replace(checkup, `"duration":30`, `"duration":"half an hour"`, 1), "duration must be an integer"},
		{"zero duration", strings.Replace(checkup, `"duration":30`, `"duration":0`, 1), "Appointment duration must be positive"},
		{"bad type", strings.Replace(checkup, "CONSULTATION", "CHECKUP", 1), "type must be one of consultation, follow-up, emergency, surgery"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(d, http.MethodPost, "/api/appointments", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := gjson.Get(rec.Body.String(), "error").String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHandler_FollowUpLabel(t *testing.T) {
	d := newTestDispatcher()

	rec := do(d, http.MethodPost, "/api/appointments", strings.Replace(checkup, "CONSULTATION", "FOLLOW_UP", 1))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := gjson.Get(rec.Body.String(), "type").String(); got != "follow-up" {
		t.Errorf("expected follow-up, got %s", got)
	}
}

func TestHandler_StatusAndDelete(t *testing.T) {
	d := newTestDispatcher()
	do(d, http.MethodPost, "/api/appointments", checkup)

	rec := do(d, http.MethodPut, "/api/appointments/1/status", `{"status":"completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := gjson.Get(rec.Body.String(), "status").String(); got != "completed" {
		t.Errorf("expected completed, got %s", got)
	}

	rec = do(d, http.MethodDelete, "/api/appointments/1", "")
	if rec.Body.String() != `{"message":"Appointment deleted successfully"}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_ListFilters(t *testing.T) {
	d := newTestDispatcher()
	do(d, http.MethodPost, "/api/appointments", checkup)
	do(d, http.MethodPost, "/api/appointments", strings.Replace(checkup, "2024-01-25", "2024-01-26", 1))

	rec := do(d, http.MethodGet, "/api/appointments?date=2024-01-26", "")
	if n := gjson.Get(rec.Body.String(), "#").Int(); n != 1 {
		t.Errorf("expected 1 appointment on the 26th, got %d", n)
	}

	rec = do(d, http.MethodGet, "/api/appointments?date=tomorrow", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date filter, got %d", rec.Code)
	}

	rec = do(d, http.MethodGet, "/api/patients/1/appointments", "")
	if n := gjson.Get(rec.Body.String(), "#").Int(); n != 2 {
		t.Errorf("expected 2 appointments for patient 1, got %d", n)
	}
}
