package ports

import (
	"context"
	"encoding/json"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// CreateHistoryInput is the payload for recording a visit.
type CreateHistoryInput struct {
	PatientID       int64
	ReasonForVisit  string
	Symptoms        string
	Diagnosis       string
	Treatment       string
	Prescriptions   string
	Observations    string
	VitalSigns      json.RawMessage
	NextAppointment string
}

// DocumentSearchResult is the single-patient result of an exact
// document-number search.
type DocumentSearchResult struct {
	Patient   *domain.Patient           `json:"patient"`
	Histories []*domain.ClinicalHistory `json:"histories"`
	Total     int                       `json:"total"`
}

// ClinicalHistoryService manages visit records and patient-centric search.
type ClinicalHistoryService interface {
	Create(ctx context.Context, input CreateHistoryInput, authorID int64) (*domain.ClinicalHistory, error)
	List(ctx context.Context) ([]*domain.ClinicalHistory, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*domain.ClinicalHistory, error)
	GetByID(ctx context.Context, id int64) (*domain.ClinicalHistory, error)
	Update(ctx context.Context, id int64, upd ClinicalHistoryUpdate) error
	Delete(ctx context.Context, id int64) error

	SearchByDocument(ctx context.Context, document string) (*DocumentSearchResult, error)
	SearchByName(ctx context.Context, name string) ([]*domain.PatientHistories, error)
	// Search tries an exact identification match or a partial name match
	// and caps each patient's group at the 10 most recent visits.
	Search(ctx context.Context, term string) ([]*domain.PatientHistories, error)
}
