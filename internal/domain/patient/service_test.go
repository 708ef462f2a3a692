package patient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/pkg/pagination"
)

// -- Mock Repository --

type mockRepo struct {
	items  map[int64]*Patient
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int64]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	m.nextID++
	p.ID = m.nextID
	p.CreatedAt = time.Now()
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	existing, ok := m.items[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, pg pagination.Params) ([]*Patient, error) {
	return m.page(func(*Patient) bool { return true }, pg), nil
}

func (m *mockRepo) SearchByName(_ context.Context, name string, pg pagination.Params) ([]*Patient, error) {
	name = strings.ToLower(name)
	return m.page(func(p *Patient) bool { return strings.Contains(strings.ToLower(p.Name), name) }, pg), nil
}

func (m *mockRepo) page(keep func(*Patient) bool, pg pagination.Params) []*Patient {
	var result []*Patient
	for _, p := range m.items {
		if keep(p) {
			result = append(result, p)
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

func validPatient() *Patient {
	return &Patient{
		Name:        "John Smith",
		Email:       "john.smith@email.com",
		Phone:       "+1-555-0123",
		DateOfBirth: interchange.NewDate(1985, time.June, 15),
		Gender:      Male,
		Allergies:   []string{"Penicillin", "Peanuts"},
	}
}

func newTestService() (*Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewService(newMockRepo(), pub), pub
}

func TestService_CreatePatient(t *testing.T) {
	svc, pub := newTestService()
	p := validPatient()

	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 {
		t.Error("expected generated id")
	}
	if len(pub.events) != 1 || pub.events[0].Action != events.Created || pub.events[0].Resource != Resource {
		t.Errorf("expected one created event, got %+v", pub.events)
	}
}

func TestService_CreatePatient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Patient)
		wantMsg string
	}{
		{"name", func(p *Patient) { p.Name = "  " }, "Patient name is required"},
		{"email", func(p *Patient) { p.Email = "" }, "Patient email is required"},
		{"phone", func(p *Patient) { p.Phone = "" }, "Patient phone is required"},
		{"date of birth", func(p *Patient) { p.DateOfBirth = interchange.Date{} }, "Patient date of birth is required"},
		{"gender", func(p *Patient) { p.Gender = "" }, "Patient gender is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, pub := newTestService()
			p := validPatient()
			tt.mutate(p)

			err := svc.CreatePatient(context.Background(), p)
			if !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("expected %q, got %q", tt.wantMsg, err.Error())
			}
			if len(pub.events) != 0 {
				t.Error("rejected patients must not be announced")
			}
		})
	}
}

func TestService_UpdatePatient(t *testing.T) {
	svc, _ := newTestService()
	p := validPatient()
	svc.CreatePatient(context.Background(), p)

	changed := validPatient()
	changed.Phone = "+1-555-9999"
	if err := svc.UpdatePatient(context.Background(), p.ID, changed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.GetPatient(context.Background(), p.ID)
	if got.Phone != "+1-555-9999" {
		t.Errorf("expected updated phone, got %s", got.Phone)
	}
}

func TestService_UpdatePatient_NotFound(t *testing.T) {
	svc, _ := newTestService()
	err := svc.UpdatePatient(context.Background(), 42, validPatient())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DeletePatient(t *testing.T) {
	svc, pub := newTestService()
	p := validPatient()
	svc.CreatePatient(context.Background(), p)

	if err := svc.DeletePatient(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetPatient(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected patient to be gone, got %v", err)
	}
	if last := pub.events[len(pub.events)-1]; last.Action != events.Deleted || last.Data != nil {
		t.Errorf("expected deleted event without data, got %+v", last)
	}
	if err := svc.DeletePatient(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestService_SearchPatients(t *testing.T) {
	svc, _ := newTestService()
	for _, name := range []string{"John Smith", "Sarah Johnson", "Michael Brown"} {
		p := validPatient()
		p.Name = name
		svc.CreatePatient(context.Background(), p)
	}

	got, err := svc.SearchPatients(context.Background(), "JOHN", pagination.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 matches, got %d", len(got))
	}

	all, _ := svc.SearchPatients(context.Background(), " ", pagination.Params{})
	if len(all) != 3 {
		t.Errorf("expected blank query to list all, got %d", len(all))
	}
}
