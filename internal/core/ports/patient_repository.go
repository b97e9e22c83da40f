package ports

import (
	"context"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// PatientUpdate carries the optional fields of a partial patient update.
// Nil pointers mean "leave unchanged".
type PatientUpdate struct {
	Identification   *string
	DocumentType     *string
	FirstName        *string
	LastName         *string
	DateOfBirth      *string
	Gender           *string
	Phone            *string
	Email            *string
	Address          *string
	EmergencyContact *string
	EmergencyPhone   *string
	BloodType        *string
	Allergies        *string
}

// Empty reports whether no field was supplied.
func (u PatientUpdate) Empty() bool {
	return u.Identification == nil && u.DocumentType == nil &&
		u.FirstName == nil && u.LastName == nil &&
		u.DateOfBirth == nil && u.Gender == nil &&
		u.Phone == nil && u.Email == nil && u.Address == nil &&
		u.EmergencyContact == nil && u.EmergencyPhone == nil &&
		u.BloodType == nil && u.Allergies == nil
}

// PatientRepository persists patient records.
type PatientRepository interface {
	Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)
	FindByID(ctx context.Context, id int64) (*domain.Patient, error)
	FindByIdentification(ctx context.Context, identification string) (*domain.Patient, error)
	// SearchByName matches case-insensitively against first name, last
	// name and the concatenated full name.
	SearchByName(ctx context.Context, name string) ([]*domain.Patient, error)
	// SearchByTerm matches identification exactly or name partially.
	SearchByTerm(ctx context.Context, term string) ([]*domain.Patient, error)
	List(ctx context.Context) ([]*domain.Patient, error)
	Update(ctx context.Context, id int64, upd PatientUpdate) error
	// Delete hard-deletes; the store cascades to clinical histories.
	Delete(ctx context.Context, id int64) error
}
