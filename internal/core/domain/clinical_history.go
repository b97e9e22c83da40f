package domain

import (
	"encoding/json"
	"time"
)

// ClinicalHistory records a single clinical visit. VitalSigns is an
// opaque JSON document: whatever well-formed structure the client sent
// comes back structurally intact, though the JSONB column may normalize
// key order and whitespace.
type ClinicalHistory struct {
	ID              int64           `json:"id"`
	PatientID       int64           `json:"patient_id"`
	DoctorID        int64           `json:"doctor_id"`
	VisitDate       time.Time       `json:"visit_date"`
	ReasonForVisit  string          `json:"reason_for_visit"`
	Symptoms        string          `json:"symptoms,omitempty"`
	Diagnosis       string          `json:"diagnosis,omitempty"`
	Treatment       string          `json:"treatment,omitempty"`
	Prescriptions   string          `json:"prescriptions,omitempty"`
	Observations    string          `json:"observations,omitempty"`
	VitalSigns      json.RawMessage `json:"vital_signs,omitempty"`
	NextAppointment string          `json:"next_appointment,omitempty"` // YYYY-MM-DD
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Denormalized fields populated by joined read paths.
	DoctorName       string `json:"doctor_name,omitempty"`
	PatientFirstName string `json:"first_name,omitempty"`
	PatientLastName  string `json:"last_name,omitempty"`
	PatientDocument  string `json:"identification,omitempty"`
}

// PatientHistories groups a matched patient with their visit records,
// newest first. Search endpoints return one group per matched patient.
type PatientHistories struct {
	Patient   *Patient           `json:"patient"`
	Histories []*ClinicalHistory `json:"histories"`
	Total     int                `json:"total_histories"`
}
