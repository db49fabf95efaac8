package model

import "time"

// Appointment statuses
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booked consultation. The console only reads them.
type Appointment struct {
	ID               string    `json:"_id"`
	TherapistID      Ref       `json:"therapistId"`
	PatientID        Ref       `json:"patientId"`
	ChildID          Ref       `json:"childId"`
	AppointmentDate  time.Time `json:"appointmentDate"`
	AppointmentTime  string    `json:"appointmentTime"`
	ConsultationType string    `json:"consultationType"`
	Duration         int       `json:"duration"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (a Appointment) GetID() string { return a.ID }

func (a Appointment) Therapist() string { return a.TherapistID.NameOr("Therapist") }

func (a Appointment) Patient() string { return a.PatientID.NameOr("Patient") }

// Child is empty when the appointment is not for a child.
func (a Appointment) Child() string { return a.ChildID.NameOr(a.ChildID.ID) }

// AppointmentFilter holds the appointments page filter.
type AppointmentFilter struct {
	Status string `json:"status" form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
}

// Child is a patient record owned by a parent account.
type Child struct {
	ID               string     `json:"_id"`
	Name             string     `json:"name"`
	ParentID         Ref        `json:"parentId"`
	DateOfBirth      *time.Time `json:"dateOfBirth,omitempty"`
	PrimaryDoctor    Ref        `json:"primaryDoctor"`
	PrimaryTherapist Ref        `json:"primaryTherapist"`
	IsActive         bool       `json:"isActive"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func (c Child) GetID() string { return c.ID }

func (c Child) Parent() string { return c.ParentID.NameOr("N/A") }

func (c Child) Doctor() string { return c.PrimaryDoctor.NameOr(c.PrimaryDoctor.ID) }

func (c Child) Therapist() string { return c.PrimaryTherapist.NameOr(c.PrimaryTherapist.ID) }

func (c Child) Status() string {
	if c.IsActive {
		return "Active"
	}
	return "Inactive"
}
