package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

// searchRecentLimit caps each patient group in the flexible search to
// the most recent visits.
const searchRecentLimit = 10

// ClinicalHistoryService manages visit records and patient-centric
// search over them.
type ClinicalHistoryService struct {
	histories ports.ClinicalHistoryRepository
	patients  ports.PatientRepository
	logger    zerolog.Logger
}

func NewClinicalHistoryService(histories ports.ClinicalHistoryRepository, patients ports.PatientRepository, logger zerolog.Logger) *ClinicalHistoryService {
	return &ClinicalHistoryService{histories: histories, patients: patients, logger: logger}
}

// Create records a visit authored by the authenticated user. The patient
// must exist; the foreign key backs up this check under concurrency.
func (s *ClinicalHistoryService) Create(ctx context.Context, input ports.CreateHistoryInput, authorID int64) (*domain.ClinicalHistory, error) {
	if _, err := s.patients.FindByID(ctx, input.PatientID); err != nil {
		return nil, err
	}

	history, err := s.histories.Create(ctx, &domain.ClinicalHistory{
		PatientID:       input.PatientID,
		DoctorID:        authorID,
		VisitDate:       time.Now().UTC(),
		ReasonForVisit:  input.ReasonForVisit,
		Symptoms:        input.Symptoms,
		Diagnosis:       input.Diagnosis,
		Treatment:       input.Treatment,
		Prescriptions:   input.Prescriptions,
		Observations:    input.Observations,
		VitalSigns:      input.VitalSigns,
		NextAppointment: input.NextAppointment,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("history_id", history.ID).
		Int64("patient_id", history.PatientID).
		Int64("author_id", authorID).
		Msg("clinical history created")
	return history, nil
}

func (s *ClinicalHistoryService) List(ctx context.Context) ([]*domain.ClinicalHistory, error) {
	return s.histories.List(ctx)
}

func (s *ClinicalHistoryService) ListByPatient(ctx context.Context, patientID int64) ([]*domain.ClinicalHistory, error) {
	return s.histories.ListByPatient(ctx, patientID, 0)
}

func (s *ClinicalHistoryService) GetByID(ctx context.Context, id int64) (*domain.ClinicalHistory, error) {
	return s.histories.FindByID(ctx, id)
}

// Update applies the supplied subset of mutable fields.
func (s *ClinicalHistoryService) Update(ctx context.Context, id int64, upd ports.ClinicalHistoryUpdate) error {
	if upd.Empty() {
		return domain.ErrNoFields
	}
	return s.histories.Update(ctx, id, upd)
}

func (s *ClinicalHistoryService) Delete(ctx context.Context, id int64) error {
	if err := s.histories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("history_id", id).Msg("clinical history deleted")
	return nil
}

// SearchByDocument resolves an exact identification number to a single
// patient and every visit on record, newest first.
func (s *ClinicalHistoryService) SearchByDocument(ctx context.Context, document string) (*ports.DocumentSearchResult, error) {
	patient, err := s.patients.FindByIdentification(ctx, document)
	if err != nil {
		return nil, err
	}

	histories, err := s.histories.ListByPatient(ctx, patient.ID, 0)
	if err != nil {
		return nil, err
	}

	return &ports.DocumentSearchResult{
		Patient:   patient,
		Histories: histories,
		Total:     len(histories),
	}, nil
}

// SearchByName matches patients by partial name and returns one group
// per match with all of their histories.
func (s *ClinicalHistoryService) SearchByName(ctx context.Context, name string) ([]*domain.PatientHistories, error) {
	patients, err := s.patients.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.group(ctx, patients, 0)
}

// Search tries an exact identification match or a partial name match,
// capping each group at the most recent visits.
func (s *ClinicalHistoryService) Search(ctx context.Context, term string) ([]*domain.PatientHistories, error) {
	patients, err := s.patients.SearchByTerm(ctx, term)
	if err != nil {
		return nil, err
	}
	return s.group(ctx, patients, searchRecentLimit)
}

func (s *ClinicalHistoryService) group(ctx context.Context, patients []*domain.Patient, limit int) ([]*domain.PatientHistories, error) {
	if len(patients) == 0 {
		return nil, domain.ErrNoSearchResults
	}

	groups := make([]*domain.PatientHistories, 0, len(patients))
	for _, p := range patients {
		histories, err := s.histories.ListByPatient(ctx, p.ID, limit)
		if err != nil {
			return nil, err
		}
		groups = append(groups, &domain.PatientHistories{
			Patient:   p,
			Histories: histories,
			Total:     len(histories),
		})
	}
	return groups, nil
}
