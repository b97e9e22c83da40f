package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

const historyColumns = `ch.id, ch.patient_id, ch.doctor_id, ch.visit_date,
	ch.reason_for_visit, ch.symptoms, ch.diagnosis, ch.treatment,
	ch.prescriptions, ch.observations, ch.vital_signs, ch.next_appointment,
	ch.created_at, ch.updated_at, u.name`

// ClinicalHistoryRepository persists visit records in the
// clinical_histories table.
type ClinicalHistoryRepository struct {
	pool *pgxpool.Pool
}

func NewClinicalHistoryRepository(pool *pgxpool.Pool) *ClinicalHistoryRepository {
	return &ClinicalHistoryRepository{pool: pool}
}

func (r *ClinicalHistoryRepository) Create(ctx context.Context, h *domain.ClinicalHistory) (*domain.ClinicalHistory, error) {
	nextAppointment, err := parseOptionalDate(h.NextAppointment)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO clinical_histories (
			patient_id, doctor_id, visit_date, reason_for_visit,
			symptoms, diagnosis, treatment, prescriptions, observations,
			vital_signs, next_appointment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		h.PatientID, h.DoctorID, h.VisitDate, h.ReasonForVisit,
		h.Symptoms, h.Diagnosis, h.Treatment, h.Prescriptions, h.Observations,
		vitalSignsParam(h.VitalSigns), nextAppointment,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			// Two foreign keys can trip here; the constraint name tells
			// which referenced row vanished.
			if strings.Contains(pgConstraint(err), "doctor") {
				return nil, domain.ErrUserNotFound
			}
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("insert clinical history: %w", err)
	}
	return h, nil
}

func (r *ClinicalHistoryRepository) FindByID(ctx context.Context, id int64) (*domain.ClinicalHistory, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+historyColumns+`, p.first_name, p.last_name, p.identification
		FROM clinical_histories ch
		JOIN patients p ON ch.patient_id = p.id
		JOIN users u ON ch.doctor_id = u.id
		WHERE ch.id = $1`, id)

	h, err := scanHistory(row, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHistoryNotFound
		}
		return nil, err
	}
	return h, nil
}

func (r *ClinicalHistoryRepository) List(ctx context.Context) ([]*domain.ClinicalHistory, error) {
	return r.query(ctx, `
		SELECT `+historyColumns+`, p.first_name, p.last_name, p.identification
		FROM clinical_histories ch
		JOIN patients p ON ch.patient_id = p.id
		JOIN users u ON ch.doctor_id = u.id
		ORDER BY ch.visit_date DESC`, true)
}

func (r *ClinicalHistoryRepository) ListByPatient(ctx context.Context, patientID int64, limit int) ([]*domain.ClinicalHistory, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM clinical_histories ch
		JOIN users u ON ch.doctor_id = u.id
		WHERE ch.patient_id = $1
		ORDER BY ch.visit_date DESC`
	args := []any{patientID}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.query(ctx, query, false, args...)
}

// Update builds the SET clause from the supplied fields only; column
// names are fixed, no user input reaches the SQL text.
func (r *ClinicalHistoryRepository) Update(ctx context.Context, id int64, upd ports.ClinicalHistoryUpdate) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.ReasonForVisit != nil {
		add("reason_for_visit", *upd.ReasonForVisit)
	}
	if upd.Symptoms != nil {
		add("symptoms", *upd.Symptoms)
	}
	if upd.Diagnosis != nil {
		add("diagnosis", *upd.Diagnosis)
	}
	if upd.Treatment != nil {
		add("treatment", *upd.Treatment)
	}
	if upd.Prescriptions != nil {
		add("prescriptions", *upd.Prescriptions)
	}
	if upd.Observations != nil {
		add("observations", *upd.Observations)
	}
	if upd.VitalSigns != nil {
		add("vital_signs", []byte(upd.VitalSigns))
	}
	if upd.NextAppointment != nil {
		next, err := parseOptionalDate(*upd.NextAppointment)
		if err != nil {
			return err
		}
		add("next_appointment", next)
	}
	if len(sets) == 0 {
		return domain.ErrNoFields
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE clinical_histories SET %s, updated_at = now() WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update clinical history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHistoryNotFound
	}
	return nil
}

func (r *ClinicalHistoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clinical_histories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete clinical history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrHistoryNotFound
	}
	return nil
}

func (r *ClinicalHistoryRepository) query(ctx context.Context, sql string, withPatient bool, args ...any) ([]*domain.ClinicalHistory, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query clinical histories: %w", err)
	}
	defer rows.Close()

	var histories []*domain.ClinicalHistory
	for rows.Next() {
		h, err := scanHistory(rows, withPatient)
		if err != nil {
			return nil, err
		}
		histories = append(histories, h)
	}
	return histories, rows.Err()
}

func scanHistory(row pgx.Row, withPatient bool) (*domain.ClinicalHistory, error) {
	h := &domain.ClinicalHistory{}
	var vitalSigns []byte
	var nextAppointment *time.Time

	dest := []any{
		&h.ID, &h.PatientID, &h.DoctorID, &h.VisitDate,
		&h.ReasonForVisit, &h.Symptoms, &h.Diagnosis, &h.Treatment,
		&h.Prescriptions, &h.Observations, &vitalSigns, &nextAppointment,
		&h.CreatedAt, &h.UpdatedAt, &h.DoctorName,
	}
	if withPatient {
		dest = append(dest, &h.PatientFirstName, &h.PatientLastName, &h.PatientDocument)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan clinical history: %w", err)
	}

	if vitalSigns != nil {
		h.VitalSigns = json.RawMessage(vitalSigns)
	}
	if nextAppointment != nil {
		h.NextAppointment = nextAppointment.Format(dateLayout)
	}
	return h, nil
}

// vitalSignsParam maps an absent blob to SQL NULL instead of an empty
// byte slice, which jsonb would reject.
func vitalSignsParam(vs json.RawMessage) any {
	if len(vs) == 0 {
		return nil
	}
	return []byte(vs)
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}
	return &t, nil
}
