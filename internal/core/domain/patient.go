package domain

import "time"

// Identification document types accepted for patients.
const (
	DocumentCC       = "CC"
	DocumentCE       = "CE"
	DocumentTI       = "TI"
	DocumentPassport = "PASAPORTE"
	DocumentOther    = "OTRO"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "Otro"
)

// Patient is a person receiving care. The identification number is
// unique across the clinic; the creating staff member is recorded.
type Patient struct {
	ID               int64     `json:"id"`
	Identification   string    `json:"identification"`
	DocumentType     string    `json:"document_type"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	DateOfBirth      string    `json:"date_of_birth"` // YYYY-MM-DD
	Gender           string    `json:"gender"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	EmergencyPhone   string    `json:"emergency_phone,omitempty"`
	BloodType        string    `json:"blood_type,omitempty"`
	Allergies        string    `json:"allergies,omitempty"`
	CreatedBy        int64     `json:"created_by"`
	CreatedByName    string    `json:"created_by_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FullName returns the concatenated display name used by the search
// endpoints.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
