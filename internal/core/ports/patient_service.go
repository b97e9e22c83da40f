package ports

import (
	"context"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// CreatePatientInput is the payload for patient registration.
type CreatePatientInput struct {
	Identification   string
	DocumentType     string
	FirstName        string
	LastName         string
	DateOfBirth      string
	Gender           string
	Phone            string
	Email            string
	Address          string
	EmergencyContact string
	EmergencyPhone   string
	BloodType        string
	Allergies        string
}

// PatientService manages patient records.
type PatientService interface {
	Create(ctx context.Context, input CreatePatientInput, creatorID int64) (*domain.Patient, error)
	List(ctx context.Context) ([]*domain.Patient, error)
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	Update(ctx context.Context, id int64, upd PatientUpdate) error
	Delete(ctx context.Context, id int64) error
}
