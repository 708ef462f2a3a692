package appointment

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
	items  map[int64]*Appointment
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int64]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.items[a.ID]; !ok {
		return ErrNotFound
	}
	m.items[a.ID] = a
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	a, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, pg pagination.Params) ([]*Appointment, error) {
	return m.page(func(*Appointment) bool { return true }, pg), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID int64, pg pagination.Params) ([]*Appointment, error) {
	return m.page(func(a *Appointment) bool { return a.PatientID == patientID }, pg), nil
}

func (m *mockRepo) ListByDate(_ context.Context, date interchange.Date, pg pagination.Params) ([]*Appointment, error) {
	return m.page(func(a *Appointment) bool { return a.Date == date }, pg), nil
}

func (m *mockRepo) page(keep func(*Appointment) bool, pg pagination.Params) []*Appointment {
	var result []*Appointment
	for _, a := range m.items {
		if keep(a) {
			result = append(result, a)
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

func validAppointment() *Appointment {
	return &Appointment{
		PatientID: 1,
		DoctorID:  2,
		Date:      interchange.NewDate(2024, time.January, 25),
		Time:      interchange.NewTimeOfDay(10, 0, 0),
		Duration:  30,
		Type:      Consultation,
	}
}

func newTestService() (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewService(newMockRepo(), pub), pub
}

func TestService_CreateAppointment_DefaultsToScheduled(t *testing.T) {
	svc, pub := newTestService()
	a := validAppointment()

	if err := svc.CreateAppointment(context.Background(), a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != Scheduled {
		t.Errorf("expected scheduled, got %s", a.Status)
	}
	if len(pub.events) != 1 || pub.events[0].Resource != Resource {
		t.Errorf("expected created event, got %+v", pub.events)
	}
}

func TestService_CreateAppointment_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Appointment)
		wantMsg string
	}{
		{"patient", func(a *Appointment) { a.PatientID = 0 }, "Patient ID is required"},
		{"doctor", func(a *Appointment) { a.DoctorID = 0 }, "Doctor ID is required"},
		{"date", func(a *Appointment) { a.Date = interchange.Date{} }, "Appointment date is required"},
		{"zero duration", func(a *Appointment) { a.Duration = 0 }, "Appointment duration must be positive"},
		{"negative duration", func(a *Appointment) { a.Duration = -15 }, "Appointment duration must be positive"},
		{"type", func(a *Appointment) { a.Type = "" }, "Appointment type is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			a := validAppointment()
			tt.mutate(a)

			err := svc.CreateAppointment(context.Background(), a)
			if !apperr.IsValidation(err) || err.Error() != tt.wantMsg {
				t.Errorf("expected validation error %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	svc, pub := newTestService()
	a := validAppointment()
	svc.CreateAppointment(context.Background(), a)

	got, err := svc.UpdateStatus(context.Background(), a.ID, NoShow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != NoShow {
		t.Errorf("expected no-show, got %s", got.Status)
	}
	if pub.events[len(pub.events)-1].Action != events.Updated {
		t.Error("expected updated event")
	}

	if _, err := svc.UpdateStatus(context.Background(), 99, Completed); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_ListFilters(t *testing.T) {
	svc, _ := newTestService()
	for i, day := range []int{25, 25, 26} {
		a := validAppointment()
		a.PatientID = int64(i%2 + 1)
		a.Date = interchange.NewDate(2024, time.January, day)
		svc.CreateAppointment(context.Background(), a)
	}

	byDate, _ := svc.ListByDate(context.Background(), interchange.NewDate(2024, time.January, 25), pagination.Params{})
	if len(byDate) != 2 {
		t.Errorf("expected 2 on the 25th, got %d", len(byDate))
	}
	byPatient, _ := svc.ListByPatient(context.Background(), 1, pagination.Params{})
	if len(byPatient) != 2 {
		t.Errorf("expected 2 for patient 1, got %d", len(byPatient))
	}
}

func TestService_UpdateAppointment_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.UpdateAppointment(context.Background(), 7, validAppointment()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
