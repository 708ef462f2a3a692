package appointment

import (
	"time"

	"github.com/medcare/medcare/internal/platform/apperr"
	"github.com/medcare/medcare/internal/platform/interchange"
)

type Type string

const (
	Consultation Type = "consultation"
	FollowUp     Type = "follow-up"
	Emergency    Type = "emergency"
	Surgery      Type = "surgery"
)

func (t Type) Label() string { return string(t) }

type Status string

const (
	Scheduled Status = "scheduled"
	Completed Status = "completed"
	Cancelled Status = "cancelled"
	NoShow    Status = "no-show"
)

func (s Status) Label() string { return string(s) }

var (
	types    = []string{string(Consultation), string(FollowUp), string(Emergency), string(Surgery)}
	statuses = []string{string(Scheduled), string(Completed), string(Cancelled), string(NoShow)}
)

// Appointment maps to the appointments table. Duration is in minutes.
type Appointment struct {
	ID          int64
	PatientID   int64
	PatientName *string
	DoctorID    int64
	DoctorName  *string
	Date        interchange.Date
	Time        interchange.TimeOfDay
	Duration    int
	Type        Type
	Status      Status
	Notes       *string
	CreatedAt   time.Time
}

func (a Appointment) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "id", Value: a.ID},
		{Name: "patientId", Value: a.PatientID},
		{Name: "patientName", Value: a.PatientName},
		{Name: "doctorId", Value: a.DoctorID},
		{Name: "doctorName", Value: a.DoctorName},
		{Name: "date", Value: a.Date},
		{Name: "time", Value: a.Time},
		{Name: "duration", Value: a.Duration},
		{Name: "type", Value: a.Type},
		{Name: "status", Value: a.Status},
		{Name: "notes", Value: a.Notes},
		{Name: "createdAt", Value: a.CreatedAt},
	}
}

// FromBody reads an appointment from a decoded request body. A missing
// status means scheduled.
func FromBody(b interchange.Body) (*Appointment, error) {
	a := &Appointment{
		PatientName: b.Optional("patientName"),
		DoctorName:  b.Optional("doctorName"),
		Notes:       b.Optional("notes"),
		Status:      Scheduled,
	}
	var err error
	if b.Has("patientId") {
		if a.PatientID, err = b.Int64("patientId"); err != nil {
			return nil, err
		}
	}
	if b.Has("doctorId") {
		if a.DoctorID, err = b.Int64("doctorId"); err != nil {
			return nil, err
		}
	}
	if b.Has("date") {
		if a.Date, err = b.Date("date"); err != nil {
			return nil, err
		}
	}
	// Midnight is a valid time, so absence is caught here rather than by
	// the service.
	if !b.Has("time") {
		return nil, apperr.Invalid("Appointment time is required")
	}
	if a.Time, err = b.TimeOfDay("time"); err != nil {
		return nil, err
	}
	if b.Has("duration") {
		if a.Duration, err = b.Int("duration"); err != nil {
			return nil, err
		}
	}
	if b.Has("type") {
		t, err := b.Label("type", types...)
		if err != nil {
			return nil, err
		}
		a.Type = Type(t)
	}
	if b.Has("status") {
		s, err := StatusFromBody(b)
		if err != nil {
			return nil, err
		}
		a.Status = s
	}
	return a, nil
}

// StatusFromBody reads the required status member.
func StatusFromBody(b interchange.Body) (Status, error) {
	s, err := b.Label("status", statuses...)
	return Status(s), err
}
