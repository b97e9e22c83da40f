package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

// patientColumns selects the patient row joined with the creator's
// display name.
const patientColumns = `p.id, p.identification, p.document_type, p.first_name, p.last_name,
	p.date_of_birth, p.gender, p.phone, p.email, p.address,
	p.emergency_contact, p.emergency_phone, p.blood_type, p.allergies,
	p.created_by, COALESCE(u.name, ''), p.created_at, p.updated_at`

const patientFrom = ` FROM patients p LEFT JOIN users u ON p.created_by = u.id `

// PatientRepository persists patient records in the patients table.
type PatientRepository struct {
	pool *pgxpool.Pool
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{pool: pool}
}

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	dob, err := time.Parse(dateLayout, p.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("parse date of birth: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO patients (
			identification, document_type, first_name, last_name,
			date_of_birth, gender, phone, email, address,
			emergency_contact, emergency_phone, blood_type, allergies, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`,
		p.Identification, p.DocumentType, p.FirstName, p.LastName,
		dob, p.Gender, p.Phone, p.Email, p.Address,
		p.EmergencyContact, p.EmergencyPhone, p.BloodType, p.Allergies, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return nil, domain.ErrIdentificationTaken
		}
		return nil, fmt.Errorf("insert patient: %w", err)
	}
	return p, nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id int64) (*domain.Patient, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+patientColumns+patientFrom+`WHERE p.id = $1`, id))
}

func (r *PatientRepository) FindByIdentification(ctx context.Context, identification string) (*domain.Patient, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+patientColumns+patientFrom+`WHERE p.identification = $1`, identification))
}

func (r *PatientRepository) SearchByName(ctx context.Context, name string) ([]*domain.Patient, error) {
	return r.query(ctx,
		`SELECT `+patientColumns+patientFrom+`
		WHERE p.first_name ILIKE '%' || $1 || '%'
		   OR p.last_name ILIKE '%' || $1 || '%'
		   OR (p.first_name || ' ' || p.last_name) ILIKE '%' || $1 || '%'
		ORDER BY p.last_name, p.first_name`, name)
}

func (r *PatientRepository) SearchByTerm(ctx context.Context, term string) ([]*domain.Patient, error) {
	return r.query(ctx,
		`SELECT `+patientColumns+patientFrom+`
		WHERE p.identification = $1
		   OR p.first_name ILIKE '%' || $1 || '%'
		   OR p.last_name ILIKE '%' || $1 || '%'
		   OR (p.first_name || ' ' || p.last_name) ILIKE '%' || $1 || '%'
		ORDER BY p.last_name, p.first_name`, term)
}

func (r *PatientRepository) List(ctx context.Context) ([]*domain.Patient, error) {
	return r.query(ctx,
		`SELECT `+patientColumns+patientFrom+`ORDER BY p.created_at DESC`)
}

// Update builds the SET clause from the supplied fields only; column
// names are fixed, no user input reaches the SQL text.
func (r *PatientRepository) Update(ctx context.Context, id int64, upd ports.PatientUpdate) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Identification != nil {
		add("identification", *upd.Identification)
	}
	if upd.DocumentType != nil {
		add("document_type", *upd.DocumentType)
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *upd.DateOfBirth)
		if err != nil {
			return fmt.Errorf("parse date of birth: %w", err)
		}
		add("date_of_birth", dob)
	}
	if upd.Gender != nil {
		add("gender", *upd.Gender)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.EmergencyContact != nil {
		add("emergency_contact", *upd.EmergencyContact)
	}
	if upd.EmergencyPhone != nil {
		add("emergency_phone", *upd.EmergencyPhone)
	}
	if upd.BloodType != nil {
		add("blood_type", *upd.BloodType)
	}
	if upd.Allergies != nil {
		add("allergies", *upd.Allergies)
	}
	if len(sets) == 0 {
		return domain.ErrNoFields
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE patients SET %s, updated_at = now() WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return domain.ErrIdentificationTaken
		}
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

// Delete hard-deletes the patient; clinical histories go with it via
// the ON DELETE CASCADE foreign key.
func (r *PatientRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Patient, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var patients []*domain.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

func (r *PatientRepository) scanOne(row pgx.Row) (*domain.Patient, error) {
	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	p := &domain.Patient{}
	var dob time.Time
	var createdBy *int64
	err := row.Scan(
		&p.ID, &p.Identification, &p.DocumentType, &p.FirstName, &p.LastName,
		&dob, &p.Gender, &p.Phone, &p.Email, &p.Address,
		&p.EmergencyContact, &p.EmergencyPhone, &p.BloodType, &p.Allergies,
		&createdBy, &p.CreatedByName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan patient: %w", err)
	}
	p.DateOfBirth = dob.Format(dateLayout)
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return p, nil
}
