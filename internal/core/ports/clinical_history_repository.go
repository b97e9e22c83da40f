package ports

import (
	"context"
	"encoding/json"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// ClinicalHistoryUpdate carries the optional fields of a partial
// history update. Nil pointers mean "leave unchanged"; a nil VitalSigns
// leaves the stored blob untouched.
type ClinicalHistoryUpdate struct {
	ReasonForVisit  *string
	Symptoms        *string
	Diagnosis       *string
	Treatment       *string
	Prescriptions   *string
	Observations    *string
	VitalSigns      json.RawMessage
	NextAppointment *string
}

// Empty reports whether no field was supplied.
func (u ClinicalHistoryUpdate) Empty() bool {
	return u.ReasonForVisit == nil && u.Symptoms == nil &&
		u.Diagnosis == nil && u.Treatment == nil &&
		u.Prescriptions == nil && u.Observations == nil &&
		u.VitalSigns == nil && u.NextAppointment == nil
}

// ClinicalHistoryRepository persists visit records.
type ClinicalHistoryRepository interface {
	Create(ctx context.Context, history *domain.ClinicalHistory) (*domain.ClinicalHistory, error)
	FindByID(ctx context.Context, id int64) (*domain.ClinicalHistory, error)
	// List returns every history joined with patient and author names,
	// newest visit first.
	List(ctx context.Context) ([]*domain.ClinicalHistory, error)
	// ListByPatient returns a patient's histories newest first. A limit
	// of 0 means no cap.
	ListByPatient(ctx context.Context, patientID int64, limit int) ([]*domain.ClinicalHistory, error)
	Update(ctx context.Context, id int64, upd ClinicalHistoryUpdate) error
	Delete(ctx context.Context, id int64) error
}
