package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/medcare/medcare/internal/domain/appointment"
	"github.com/medcare/medcare/internal/domain/billing"
	"github.com/medcare/medcare/internal/domain/ehr"
	"github.com/medcare/medcare/internal/domain/inventory"
	"github.com/medcare/medcare/internal/domain/patient"
	"github.com/medcare/medcare/internal/domain/user"
	"github.com/medcare/medcare/internal/platform/db"
	"github.com/medcare/medcare/internal/platform/events"
	"github.com/medcare/medcare/internal/platform/interchange"
	"github.com/medcare/medcare/internal/platform/token"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample users, patients and records into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if _, err := db.NewMigrator(pool, migrationsFS(cfg)).Up(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			// Seeding never mints tokens that leave the process.
			svc := newServices(pool, token.LegacyCodec{}, events.Nop{})
			return seed(ctx, svc, cmd.OutOrStdout())
		},
	}
}

func ptr[T any](v T) *T { return &v }

var sampleUsers = []user.Registration{
	{Name: "Dr. Sarah Johnson", Email: "admin@medcare.com", Password: "admin123", Role: "admin"},
	{Name: "Dr. Michael Chen", Email: "doctor@medcare.com", Password: "doctor123", Role: "doctor"},
	{Name: "Nurse Lisa Park", Email: "nurse@medcare.com", Password: "nurse123", Role: "nurse"},
}

// seed loads the sample data set. It stops without changes when the first
// sample user already exists.
func seed(ctx context.Context, svc *services, out io.Writer) error {
	doctors := map[string]*user.User{}
	for i, reg := range sampleUsers {
		s, err := svc.users.Register(ctx, reg)
		if errors.Is(err, user.ErrDuplicateEmail) && i == 0 {
			fmt.Fprintln(out, "Sample data already present, nothing to do.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("seed user %s: %w", reg.Email, err)
		}
		doctors[reg.Email] = s.User
	}
	doctor := doctors["doctor@medcare.com"]
	admin := doctors["admin@medcare.com"]

	john := &patient.Patient{
		Name:             "John Smith",
		Email:            "john.smith@email.com",
		Phone:            "+1-555-0123",
		DateOfBirth:      interchange.NewDate(1985, time.June, 15),
		Gender:           patient.Male,
		Address:          ptr("123 Main St, City, State 12345"),
		EmergencyContact: ptr("+1-555-0124"),
		BloodType:        ptr("O+"),
		Allergies:        []string{"Penicillin", "Peanuts"},
		Medications:      []string{"Lisinopril 10mg"},
	}
	emily := &patient.Patient{
		Name:             "Emily Johnson",
		Email:            "emily.johnson@email.com",
		Phone:            "+1-555-0125",
		DateOfBirth:      interchange.NewDate(1990, time.March, 22),
		Gender:           patient.Female,
		Address:          ptr("456 Oak Ave, City, State 12345"),
		EmergencyContact: ptr("+1-555-0126"),
		BloodType:        ptr("A-"),
		Allergies:        []string{"Latex"},
		Medications:      []string{},
	}
	for _, p := range []*patient.Patient{john, emily} {
		if err := svc.patients.CreatePatient(ctx, p); err != nil {
			return fmt.Errorf("seed patient %s: %w", p.Name, err)
		}
	}

	appointments := []*appointment.Appointment{
		{
			PatientID: john.ID, PatientName: ptr(john.Name),
			DoctorID: doctor.ID, DoctorName: ptr(doctor.Name),
			Date: interchange.NewDate(2024, time.January, 25), Time: interchange.NewTimeOfDay(10, 0, 0),
			Duration: 30, Type: appointment.Consultation, Notes: ptr("Regular checkup"),
		},
		{
			PatientID: emily.ID, PatientName: ptr(emily.Name),
			DoctorID: admin.ID, DoctorName: ptr(admin.Name),
			Date: interchange.NewDate(2024, time.January, 25), Time: interchange.NewTimeOfDay(14, 30, 0),
			Duration: 45, Type: appointment.FollowUp, Notes: ptr("Follow-up for previous consultation"),
		},
	}
	for _, a := range appointments {
		if err := svc.appointments.CreateAppointment(ctx, a); err != nil {
			return fmt.Errorf("seed appointment: %w", err)
		}
	}

	records := []*ehr.Record{
		{
			PatientID: john.ID, Date: interchange.NewDate(2024, time.January, 20), Type: ehr.Diagnosis,
			Title:       "Hypertension",
			Description: ptr("Patient diagnosed with stage 1 hypertension. Blood pressure readings consistently above 140/90."),
			DoctorID:    ptr(doctor.ID), DoctorName: ptr(doctor.Name),
		},
		{
			PatientID: john.ID, Date: interchange.NewDate(2024, time.January, 20), Type: ehr.Prescription,
			Title:       "Lisinopril Prescription",
			Description: ptr("Prescribed Lisinopril 10mg once daily for hypertension management."),
			DoctorID:    ptr(doctor.ID), DoctorName: ptr(doctor.Name),
		},
	}
	for _, r := range records {
		if err := svc.ehr.CreateRecord(ctx, r); err != nil {
			return fmt.Errorf("seed ehr record %s: %w", r.Title, err)
		}
	}

	items := []*inventory.Item{
		{
			Name: "Paracetamol 500mg", Category: inventory.Medication, Quantity: 150, MinStock: 50,
			Unit: ptr("tablets"), Supplier: ptr("PharmaCorp"),
			ExpiryDate: ptr(interchange.NewDate(2025, time.December, 31)),
			Cost:       interchange.Cents(15), Location: ptr("Pharmacy-A1"),
		},
		{
			Name: "Digital Thermometer", Category: inventory.Equipment, Quantity: 25, MinStock: 10,
			Unit: ptr("pieces"), Supplier: ptr("MedEquip Ltd"),
			Cost: interchange.Cents(4500), Location: ptr("Equipment-B2"),
		},
		{
			Name: "Disposable Gloves", Category: inventory.Supplies, Quantity: 500, MinStock: 100,
			Unit: ptr("boxes"), Supplier: ptr("SafeSupply Co"),
			Cost: interchange.Cents(1250), Location: ptr("Supplies-C1"),
		},
	}
	for _, it := range items {
		if err := svc.inventory.CreateItem(ctx, it); err != nil {
			return fmt.Errorf("seed inventory item %s: %w", it.Name, err)
		}
	}

	bill := &billing.Bill{
		PatientID:   john.ID,
		PatientName: ptr(john.Name),
		Date:        interchange.NewDate(2024, time.January, 20),
		Items: []billing.Item{
			{Description: "Consultation Fee", Quantity: 1, UnitPrice: interchange.Cents(15000)},
			{Description: "Blood Pressure Test", Quantity: 1, UnitPrice: interchange.Cents(2500)},
			{Description: "Prescription", Quantity: 1, UnitPrice: interchange.Cents(3000)},
		},
	}
	if err := svc.billing.CreateBill(ctx, bill); err != nil {
		return fmt.Errorf("seed bill: %w", err)
	}

	fmt.Fprintf(out, "Seeded %d users, 2 patients, %d appointments, %d records, %d inventory items and 1 bill.\n",
		len(sampleUsers), len(appointments), len(records), len(items))
	return nil
}
