package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

// PatientService manages patient records.
type PatientService struct {
	repo   ports.PatientRepository
	logger zerolog.Logger
}

func NewPatientService(repo ports.PatientRepository, logger zerolog.Logger) *PatientService {
	return &PatientService{repo: repo, logger: logger}
}

// Create registers a patient. The identification number must be unique;
// the pre-check is advisory and the store constraint decides races.
func (s *PatientService) Create(ctx context.Context, input ports.CreatePatientInput, creatorID int64) (*domain.Patient, error) {
	if _, err := s.repo.FindByIdentification(ctx, input.Identification); err == nil {
		return nil, domain.ErrIdentificationTaken
	} else if !errors.Is(err, domain.ErrPatientNotFound) {
		return nil, err
	}

	patient, err := s.repo.Create(ctx, &domain.Patient{
		Identification:   input.Identification,
		DocumentType:     input.DocumentType,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		DateOfBirth:      input.DateOfBirth,
		Gender:           input.Gender,
		Phone:            input.Phone,
		Email:            input.Email,
		Address:          input.Address,
		EmergencyContact: input.EmergencyContact,
		EmergencyPhone:   input.EmergencyPhone,
		BloodType:        input.BloodType,
		Allergies:        input.Allergies,
		CreatedBy:        creatorID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("patient_id", patient.ID).Int64("created_by", creatorID).Msg("patient created")
	return patient, nil
}

func (s *PatientService) List(ctx context.Context) ([]*domain.Patient, error) {
	return s.repo.List(ctx)
}

func (s *PatientService) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies the supplied subset of mutable fields.
func (s *PatientService) Update(ctx context.Context, id int64, upd ports.PatientUpdate) error {
	if upd.Empty() {
		return domain.ErrNoFields
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete hard-deletes the patient; the store cascades the delete to all
// of the patient's clinical histories.
func (s *PatientService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("patient_id", id).Msg("patient deleted")
	return nil
}
