package handler

// --- Request types ---

type createPatientRequest struct {
	Identification   string `json:"identification"    validate:"required"`
	DocumentType     string `json:"document_type"     validate:"required,oneof=CC CE TI PASAPORTE OTRO"`
	FirstName        string `json:"first_name"        validate:"required"`
	LastName         string `json:"last_name"         validate:"required"`
	DateOfBirth      string `json:"date_of_birth"     validate:"required,datetime=2006-01-02"`
	Gender           string `json:"gender"            validate:"required,oneof=M F Otro"`
	Phone            string `json:"phone"`
	Email            string `json:"email"             validate:"omitempty,email"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
	BloodType        string `json:"blood_type"`
	Allergies        string `json:"allergies"`
}

// updatePatientRequest mirrors the static allow-list of mutable patient
// fields. Absent fields stay untouched.
type updatePatientRequest struct {
	Identification   *string `json:"identification"    validate:"omitempty,min=1"`
	DocumentType     *string `json:"document_type"     validate:"omitempty,oneof=CC CE TI PASAPORTE OTRO"`
	FirstName        *string `json:"first_name"        validate:"omitempty,min=1"`
	LastName         *string `json:"last_name"         validate:"omitempty,min=1"`
	DateOfBirth      *string `json:"date_of_birth"     validate:"omitempty,datetime=2006-01-02"`
	Gender           *string `json:"gender"            validate:"omitempty,oneof=M F Otro"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"             validate:"omitempty,email"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergency_contact"`
	EmergencyPhone   *string `json:"emergency_phone"`
	BloodType        *string `json:"blood_type"`
	Allergies        *string `json:"allergies"`
}
