package ehr

import (
	"time"

	"github.com/medcare/medcare/internal/platform/interchange"
)

type Type string

const (
	Diagnosis    Type = "diagnosis"
	Treatment    Type = "treatment"
	TestResult   Type = "test-result"
	Prescription Type = "prescription"
)

func (t Type) Label() string { return string(t) }

var types = []string{string(Diagnosis), string(Treatment), string(TestResult), string(Prescription)}

// Record is one entry of a patient's electronic health record, stored in
// ehr_records. Attachments are references such as file names or URLs.
type Record struct {
	ID          int64
	PatientID   int64
	Date        interchange.Date
	Type        Type
	Title       string
	Description *string
	DoctorID    *int64
	DoctorName  *string
	Attachments []string
	CreatedAt   time.Time
}

func (r Record) Fields() []interchange.Field {
	attachments := r.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return []interchange.Field{
		{Name: "id", Value: r.ID},
		{Name: "patientId", Value: r.PatientID},
		{Name: "date", Value: r.Date},
		{Name: "type", Value: r.Type},
		{Name: "title", Value: r.Title},
		{Name: "description", Value: r.Description},
		{Name: "doctorId", Value: r.DoctorID},
		{Name: "doctorName", Value: r.DoctorName},
		{Name: "attachments", Value: attachments},
		{Name: "createdAt", Value: r.CreatedAt},
	}
}

func FromBody(b interchange.Body) (*Record, error) {
	r := &Record{
		Title:       b.String("title"),
		Description: b.Optional("description"),
		DoctorName:  b.Optional("doctorName"),
		Attachments: b.List("attachments"),
	}
	var err error
	if b.Has("patientId") {
		if r.PatientID, err = b.Int64("patientId"); err != nil {
			return nil, err
		}
	}
	if b.Has("date") {
		if r.Date, err = b.Date("date"); err != nil {
			return nil, err
		}
	}
	if b.Has("type") {
		t, err := b.Label("type", types...)
		if err != nil {
			return nil, err
		}
		r.Type = Type(t)
	}
	if b.Has("doctorId") {
		id, err := b.Int64("doctorId")
		if err != nil {
			return nil, err
		}
		r.DoctorID = &id
	}
	return r, nil
}
