package patient

import (
	"time"

	"github.com/medcare/medcare/internal/platform/interchange"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

func (g Gender) Label() string { return string(g) }

var genders = []string{string(Male), string(Female), string(Other)}

// Patient maps to the patients table.
type Patient struct {
	ID               int64
	Name             string
	Email            string
	Phone            string
	DateOfBirth      interchange.Date
	Gender           Gender
	Address          *string
	EmergencyContact *string
	BloodType        *string
	Allergies        []string
	Medications      []string
	CreatedAt        time.Time
}

func (p Patient) Fields() []interchange.Field {
	return []interchange.Field{
		{Name: "id", Value: p.ID},
		{Name: "name", Value: p.Name},
		{Name: "email", Value: p.Email},
		{Name: "phone", Value: p.Phone},
		{Name: "dateOfBirth", Value: p.DateOfBirth},
		{Name: "gender", Value: p.Gender},
		{Name: "address", Value: p.Address},
		{Name: "emergencyContact", Value: p.EmergencyContact},
		{Name: "bloodType", Value: p.BloodType},
		{Name: "allergies", Value: p.Allergies},
		{Name: "medications", Value: p.Medications},
		{Name: "createdAt", Value: p.CreatedAt},
	}
}

// FromBody reads a patient from a decoded request body. Missing required
// members are left empty for the service to reject; members that are
// present but unparsable fail here.
func FromBody(b interchange.Body) (*Patient, error) {
	p := &Patient{
		Name:             b.String("name"),
		Email:            b.String("email"),
		Phone:            b.String("phone"),
		Address:          b.Optional("address"),
		EmergencyContact: b.Optional("emergencyContact"),
		BloodType:        b.Optional("bloodType"),
		Allergies:        b.List("allergies"),
		Medications:      b.List("medications"),
	}
	if b.Has("dateOfBirth") {
		dob, err := b.Date("dateOfBirth")
		if err != nil {
			return nil, err
		}
		p.DateOfBirth = dob
	}
	if b.Has("gender") {
		g, err := b.Label("gender", genders...)
		if err != nil {
			return nil, err
		}
		p.Gender = Gender(g)
	}
	return p, nil
}
