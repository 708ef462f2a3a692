package ehr

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/pkg/pagination"
)

// -- Mock Repository --

type mockRepo struct {
	records map[int64]*Record
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[int64]*Record)}
}

func (m *mockRepo) Create(_ context.Context, r *Record) error {
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	m.records[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (m *mockRepo) Update(_ context.Context, r *Record) error {
	existing, ok := m.records[r.ID]
	if !ok {
		return ErrNotFound
	}
	r.CreatedAt = existing.CreatedAt
	m.records[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, pg pagination.Params) ([]*Record, error) {
	return m.page(func(*Record) bool { return true }, pg), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID int64, pg pagination.Params) ([]*Record, error) {
	return m.page(func(r *Record) bool { return r.PatientID == patientID }, pg), nil
}

func (m *mockRepo) page(keep func(*Record) bool, pg pagination.Params) []*Record {
	var result []*Record
	for _, r := range m.records {
		if keep(r) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	start, end := pg.Window(len(result))
	return result[start:end]
}

type recordingPublisher struct {
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) {
	r.events = append(r.events, e)
}

func newTestService() (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewService(newMockRepo(), pub)
	svc.now = func() time.Time { return time.Date(2024, time.January, 20, 8, 0, 0, 0, time.UTC) }
	return svc, pub
}

func hypertension() *Record {
	doctor := int64(2)
	return &Record{
		PatientID: 1,
		Type:      Diagnosis,
		Title:     "Hypertension",
		DoctorID:  &doctor,
	}
}

func TestService_CreateRecord_DefaultsDate(t *testing.T) {
	svc, pub := newTestService()
	r := hypertension()

	if err := svc.CreateRecord(context.Background(), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID == 0 {
		t.Error("expected ID to be assigned")
	}
	if r.Date != interchange.NewDate(2024, time.January, 20) {
		t.Errorf("expected record dated today, got %s", r.Date)
	}
	if len(pub.events) != 1 || pub.events[0].Action != events.Created || pub.events[0].Resource != Resource {
		t.Errorf("unexpected events %+v", pub.events)
	}
}

func TestService_CreateRecord_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Record)
		wantMsg string
	}{
		{"patient", func(r *Record) { r.PatientID = 0 }, "Patient ID is required"},
		{"type", func(r *Record) { r.Type = "" }, "Record type is required"},
		{"title", func(r *Record) { r.Title = "  " }, "Record title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			r := hypertension()
			tt.mutate(r)
			err := svc.CreateRecord(context.Background(), r)
			if !apperr.IsValidation(err) || err.Error() != tt.wantMsg {
				t.Errorf("expected %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestService_UpdateRecord(t *testing.T) {
	svc, _ := newTestService()
	r := hypertension()
	r.Date = interchange.NewDate(2024, time.January, 15)
	svc.CreateRecord(context.Background(), r)

	upd := hypertension()
	upd.Type = Prescription
	upd.Title = "Lisinopril Prescription"
	if err := svc.UpdateRecord(context.Background(), r.ID, upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.GetRecord(context.Background(), r.ID)
	if got.Title != "Lisinopril Prescription" || got.Type != Prescription {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Date != interchange.NewDate(2024, time.January, 15) {
		t.Errorf("expected existing date kept, got %s", got.Date)
	}

	if err := svc.UpdateRecord(context.Background(), 99, hypertension()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListByPatient(t *testing.T) {
	svc, _ := newTestService()
	for _, pid := range []int64{1, 2, 1} {
		r := hypertension()
		r.PatientID = pid
		svc.CreateRecord(context.Background(), r)
	}
	got, err := svc.ListByPatient(context.Background(), 1, pagination.Params{})
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 records, got %d %v", len(got), err)
	}
	all, _ := svc.ListRecords(context.Background(), pagination.Params{Limit: 2})
	if len(all) != 2 {
		t.Errorf("expected limit to apply, got %d", len(all))
	}
}

func TestService_DeleteRecord(t *testing.T) {
	svc, pub := newTestService()
	r := hypertension()
	svc.CreateRecord(context.Background(), r)

	if err := svc.DeleteRecord(context.Background(), r.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteRecord(context.Background(), r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if last := pub.events[len(pub.events)-1]; last.Action != events.Deleted || last.ID != r.ID {
		t.Errorf("unexpected last event %+v", last)
	}
}
