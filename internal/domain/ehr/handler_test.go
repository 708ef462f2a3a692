package ehr

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

const diagnosis = `{"patientId":1,"date":"2024-01-20","type":"DIAGNOSIS","title":"Hypertension",` +
	`"description":"Stage 1 hypertension, readings above 140/90.","doctorId":2,"doctorName":"Dr. Michael Chen",` +
	`"attachments":"bp-log.pdf, ecg.png"}`

func TestHandler_CreateRecord(t *testing.T) {
	d := newTestDispatcher()

	rec := do(d, http.MethodPost, "/api/ehr", diagnosis)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if gjson.Get(body, "id").Int() != 1 {
		t.Errorf("expected generated id 1, got %s", body)
	}
	if got := gjson.Get(body, "type").String(); got != "diagnosis" {
		t.Errorf("expected diagnosis label, got %q", got)
	}
	if got := gjson.Get(body, "description").String(); got != "Stage 1 hypertension, readings above 140/90." {
		t.Errorf("unexpected description %q", got)
	}
	if n := gjson.Get(body, "attachments.#").Int(); n != 2 {
		t.Errorf("expected 2 attachments, got %d", n)
	}
	if gjson.Get(body, "doctorId").Int() != 2 {
		t.Errorf("expected doctorId 2, got %s", body)
	}
}

func TestHandler_CreateRecord_TestResultLabel(t *testing.T) {
	d := newTestDispatcher()

	rec := do(d, http.MethodPost, "/api/ehr", `{"patientId":1,"type":"test_result","title":"CBC"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if got := gjson.Get(body, "type").String(); got != "test-result" {
		t.Errorf("expected test-result, got %q", got)
	}
	if gjson.Get(body, "doctorId").Exists() || gjson.Get(body, "description").Exists() {
		t.Errorf("expected absent fields to be omitted: %s", body)
	}
	if !strings.Contains(body, `"attachments":[]`) {
		t.Errorf("expected empty attachments list: %s", body)
	}
}

func TestHandler_CreateRecord_BadRequest(t *testing.T) {
	d := newTestDispatcher()

	rec := do(d, http.MethodPost, "/api/ehr", `{"patientId":1,"type":"x-ray","title":"Chest"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := gjson.Get(rec.Body.String(), "error").String(); !strings.HasPrefix(got, "type must be one of") {
		t.Errorf("unexpected error %q", got)
	}
}

func TestHandler_RecordLifecycle(t *testing.T) {
	d := newTestDispatcher()
	do(d, http.MethodPost, "/api/ehr", diagnosis)

	rec := do(d, http.MethodPut, "/api/ehr/1", `{"patientId":1,"type":"treatment","title":"Lifestyle changes"}`)
	if rec.Code != http.StatusOK || gjson.Get(rec.Body.String(), "title").String() != "Lifestyle changes" {
		t.Errorf("unexpected update %d %s", rec.Code, rec.Body.String())
	}

	rec = do(d, http.MethodGet, "/api/patients/1/records", "")
	if n := gjson.Get(rec.Body.String(), "#").Int(); n != 1 {
		t.Errorf("expected 1 record for patient, got %d", n)
	}
	rec = do(d, http.MethodGet, "/api/patients/2/records", "")
	if rec.Body.String() != "[]" {
		t.Errorf("expected empty list, got %s", rec.Body.String())
	}

	rec = do(d, http.MethodDelete, "/api/ehr/1", "")
	if rec.Body.String() != `{"message":"Record deleted successfully"}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	rec = do(d, http.MethodGet, "/api/ehr/1", "")
	if rec.Code != http.StatusNotFound || rec.Body.String() != `{"error":"Record not found"}` {
		t.Errorf("expected 404 Record not found, got %d %s", rec.Code, rec.Body.String())
	}
}
