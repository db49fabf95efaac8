package model

import (
	"strconv"
	"time"
)

// Qualification is one degree listed on a therapist profile.
type Qualification struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year,omitempty"`
}

type Location struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// TherapistProfile is the professional profile of a therapist or doctor.
type TherapistProfile struct {
	ID                string          `json:"_id"`
	UserID            Ref             `json:"userId"`
	IsVerified        bool            `json:"isVerified"`
	IsProfileComplete bool            `json:"isProfileComplete"`
	VerifiedAt        *time.Time      `json:"verifiedAt,omitempty"`
	VerifiedBy        Ref             `json:"verifiedBy"`
	VerificationNotes string          `json:"verificationNotes,omitempty"`
	Qualifications    []Qualification `json:"qualifications,omitempty"`
	Specializations   []string        `json:"specializations,omitempty"`
	LicenseNumber     string          `json:"licenseNumber,omitempty"`
	LicenseDocument   string          `json:"licenseDocument,omitempty"`
	ProfessionalBio   string          `json:"professionalBio,omitempty"`
	Location          *Location       `json:"location,omitempty"`
	YearsOfExperience int             `json:"yearsOfExperience"`
	AverageRating     *float64        `json:"averageRating,omitempty"`
	TotalReviews      int             `json:"totalReviews"`
	TotalAppointments int             `json:"totalAppointments"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func (t TherapistProfile) GetID() string { return t.ID }

func (t TherapistProfile) Name() string { return t.UserID.NameOr("N/A") }

func (t TherapistProfile) Email() string {
	if t.UserID.Email == "" {
		return "N/A"
	}
	return t.UserID.Email
}

func (t TherapistProfile) Role() string {
	if t.UserID.Role == "" {
		return "N/A"
	}
	return t.UserID.Role
}

func (t TherapistProfile) City() string {
	if t.Location == nil || t.Location.City == "" {
		return "N/A"
	}
	return t.Location.City
}

func (t TherapistProfile) State() string {
	if t.Location == nil || t.Location.State == "" {
		return "N/A"
	}
	return t.Location.State
}

// Rating is the average rating to one decimal, "0.0" when unrated.
func (t TherapistProfile) Rating() string {
	if t.AverageRating == nil {
		return "0.0"
	}
	return strconv.FormatFloat(*t.AverageRating, 'f', 1, 64)
}

// PendingReview reports an unverified profile whose owner finished filling it in.
func (t TherapistProfile) PendingReview() bool {
	return !t.IsVerified && t.IsProfileComplete
}

// TherapistFilter holds the therapists page filters.
type TherapistFilter struct {
	IsVerified string `json:"isVerified" form:"isVerified" binding:"omitempty,oneof=true false"`
	Role       string `json:"role" form:"role" binding:"omitempty,oneof=therapist doctor"`
	Search     string `json:"search" form:"search"`
}

type VerifyRequest struct {
	VerificationNotes string `json:"verificationNotes,omitempty"`
}

type UnverifyRequest struct {
	Reason string `json:"reason,omitempty"`
}
