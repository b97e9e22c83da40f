package handler

import (
	"encoding/json"
	"time"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// --- Request types ---

type createHistoryRequest struct {
	PatientID       int64           `json:"patient_id"       validate:"required,gt=0"`
	ReasonForVisit  string          `json:"reason_for_visit" validate:"required"`
	Symptoms        string          `json:"symptoms"`
	Diagnosis       string          `json:"diagnosis"`
	Treatment       string          `json:"treatment"`
	Prescriptions   string          `json:"prescriptions"`
	Observations    string          `json:"observations"`
	VitalSigns      json.RawMessage `json:"vital_signs"`
	NextAppointment string          `json:"next_appointment" validate:"omitempty,datetime=2006-01-02"`
}

type updateHistoryRequest struct {
	ReasonForVisit  *string         `json:"reason_for_visit" validate:"omitempty,min=1"`
	Symptoms        *string         `json:"symptoms"`
	Diagnosis       *string         `json:"diagnosis"`
	Treatment       *string         `json:"treatment"`
	Prescriptions   *string         `json:"prescriptions"`
	Observations    *string         `json:"observations"`
	VitalSigns      json.RawMessage `json:"vital_signs"`
	NextAppointment *string         `json:"next_appointment" validate:"omitempty,datetime=2006-01-02"`
}

// --- Response types ---

type groupedSearchResponse struct {
	SearchTerm    string                     `json:"search_term"`
	TotalPatients int                        `json:"total_patients"`
	Results       []*domain.PatientHistories `json:"results"`
}

// The flexible search trims each visit down to what a results list
// needs; full records stay behind GET /clinical-history/{id}.

type patientSummary struct {
	ID             int64  `json:"id"`
	Identification string `json:"identification"`
	DocumentType   string `json:"document_type"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
}

type recentVisit struct {
	ID             int64     `json:"id"`
	VisitDate      time.Time `json:"visit_date"`
	ReasonForVisit string    `json:"reason_for_visit"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	DoctorName     string    `json:"doctor_name"`
}

type flexibleSearchGroup struct {
	Patient         patientSummary `json:"patient"`
	RecentHistories []recentVisit  `json:"recent_histories"`
	TotalHistories  int            `json:"total_histories"`
}

type flexibleSearchResponse struct {
	SearchTerm    string                `json:"search_term"`
	TotalPatients int                   `json:"total_patients"`
	Results       []flexibleSearchGroup `json:"results"`
}

func newFlexibleSearchResponse(term string, groups []*domain.PatientHistories) flexibleSearchResponse {
	results := make([]flexibleSearchGroup, 0, len(groups))
	for _, g := range groups {
		visits := make([]recentVisit, 0, len(g.Histories))
		for _, h := range g.Histories {
			visits = append(visits, recentVisit{
				ID:             h.ID,
				VisitDate:      h.VisitDate,
				ReasonForVisit: h.ReasonForVisit,
				Diagnosis:      h.Diagnosis,
				DoctorName:     h.DoctorName,
			})
		}
		results = append(results, flexibleSearchGroup{
			Patient: patientSummary{
				ID:             g.Patient.ID,
				Identification: g.Patient.Identification,
				DocumentType:   g.Patient.DocumentType,
				FirstName:      g.Patient.FirstName,
				LastName:       g.Patient.LastName,
				FullName:       g.Patient.FullName(),
			},
			RecentHistories: visits,
			TotalHistories:  len(visits),
		})
	}
	return flexibleSearchResponse{
		SearchTerm:    term,
		TotalPatients: len(groups),
		Results:       results,
	}
}
