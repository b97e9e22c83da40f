package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

type stubHistoryRepo struct {
	histories map[int64]*domain.ClinicalHistory
	nextID    int64
}

func newStubHistoryRepo() *stubHistoryRepo {
	return &stubHistoryRepo{histories: make(map[int64]*domain.ClinicalHistory), nextID: 1}
}

func cloneHistory(h *domain.ClinicalHistory) *domain.ClinicalHistory {
	if h == nil {
		return nil
	}
	clone := *h
	return &clone
}

func (r *stubHistoryRepo) Create(_ context.Context, history *domain.ClinicalHistory) (*domain.ClinicalHistory, error) {
	copy := cloneHistory(history)
	copy.ID = r.nextID
	r.nextID++
	r.histories[copy.ID] = cloneHistory(copy)
	return cloneHistory(copy), nil
}

func (r *stubHistoryRepo) FindByID(_ context.Context, id int64) (*domain.ClinicalHistory, error) {
	h, ok := r.histories[id]
	if !ok {
		return nil, domain.ErrHistoryNotFound
	}
	return cloneHistory(h), nil
}

func (r *stubHistoryRepo) List(_ context.Context) ([]*domain.ClinicalHistory, error) {
	out := make([]*domain.ClinicalHistory, 0, len(r.histories))
	for _, h := range r.histories {
		out = append(out, cloneHistory(h))
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *stubHistoryRepo) ListByPatient(_ context.Context, patientID int64, limit int) ([]*domain.ClinicalHistory, error) {
	var out []*domain.ClinicalHistory
	for _, h := range r.histories {
		if h.PatientID == patientID {
			out = append(out, cloneHistory(h))
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubHistoryRepo) Update(_ context.Context, id int64, upd ports.ClinicalHistoryUpdate) error {
	h, ok := r.histories[id]
	if !ok {
		return domain.ErrHistoryNotFound
	}
	if upd.Diagnosis != nil {
		h.Diagnosis = *upd.Diagnosis
	}
	if upd.VitalSigns != nil {
		h.VitalSigns = upd.VitalSigns
	}
	return nil
}

func (r *stubHistoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.histories[id]; !ok {
		return domain.ErrHistoryNotFound
	}
	delete(r.histories, id)
	return nil
}

func sortNewestFirst(histories []*domain.ClinicalHistory) {
	sort.Slice(histories, func(i, j int) bool {
		return histories[i].VisitDate.After(histories[j].VisitDate)
	})
}

func newHistoryService(histories *stubHistoryRepo, patients *stubPatientRepo) *ClinicalHistoryService {
	return NewClinicalHistoryService(histories, patients, zerolog.Nop())
}

func TestClinicalHistoryService_Create_Success(t *testing.T) {
	patients := newStubPatientRepo()
	seeded := patients.add(t, "100200", "Maria", "Gomez")
	histories := newStubHistoryRepo()
	svc := newHistoryService(histories, patients)

	vitals := json.RawMessage(`{"temperature":37.2,"heart_rate":80}`)
	history, err := svc.Create(context.Background(), ports.CreateHistoryInput{
		PatientID:      seeded.ID,
		ReasonForVisit: "headache",
		Diagnosis:      "migraine",
		VitalSigns:     vitals,
	}, 3)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if history.DoctorID != 3 {
		t.Fatalf("expected author recorded, got %d", history.DoctorID)
	}
	if history.VisitDate.IsZero() {
		t.Fatalf("expected visit date stamped")
	}

	// The service must pass the vital signs blob through untouched.
	stored, err := histories.FindByID(context.Background(), history.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !bytes.Equal(stored.VitalSigns, vitals) {
		t.Fatalf("vital signs mutated: %s", stored.VitalSigns)
	}
}

func TestClinicalHistoryService_Create_PatientNotFound(t *testing.T) {
	svc := newHistoryService(newStubHistoryRepo(), newStubPatientRepo())

	if _, err := svc.Create(context.Background(), ports.CreateHistoryInput{
		PatientID:      9999,
		ReasonForVisit: "checkup",
	}, 1); err != domain.ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestClinicalHistoryService_Update(t *testing.T) {
	patients := newStubPatientRepo()
	seeded := patients.add(t, "100300", "Luis", "Prada")
	histories := newStubHistoryRepo()
	svc := newHistoryService(histories, patients)

	history, err := svc.Create(context.Background(), ports.CreateHistoryInput{
		PatientID:      seeded.ID,
		ReasonForVisit: "checkup",
	}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Update(context.Background(), history.ID, ports.ClinicalHistoryUpdate{}); err != domain.ErrNoFields {
		t.Fatalf("expected ErrNoFields for empty update, got %v", err)
	}

	diagnosis := "hypertension"
	if err := svc.Update(context.Background(), history.ID, ports.ClinicalHistoryUpdate{Diagnosis: &diagnosis}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	updated, err := histories.FindByID(context.Background(), history.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if updated.Diagnosis != diagnosis {
		t.Fatalf("diagnosis not applied: %s", updated.Diagnosis)
	}
}

func TestClinicalHistoryService_SearchByDocument(t *testing.T) {
	patients := newStubPatientRepo()
	seeded := patients.add(t, "900100", "Rosa", "Diaz")
	histories := newStubHistoryRepo()
	svc := newHistoryService(histories, patients)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), ports.CreateHistoryInput{
			PatientID:      seeded.ID,
			ReasonForVisit: fmt.Sprintf("visit %d", i),
		}, 1); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	result, err := svc.SearchByDocument(context.Background(), "900100")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Patient.ID != seeded.ID {
		t.Fatalf("unexpected patient: %+v", result.Patient)
	}
	if result.Total != 3 || len(result.Histories) != 3 {
		t.Fatalf("expected 3 histories, got %d", result.Total)
	}

	if _, err := svc.SearchByDocument(context.Background(), "no-such-doc"); err != domain.ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestClinicalHistoryService_SearchByName(t *testing.T) {
	patients := newStubPatientRepo()
	ana := patients.add(t, "1", "Ana", "Martinez")
	anaMaria := patients.add(t, "2", "Ana Maria", "Lopez")
	patients.add(t, "3", "Jorge", "Castro")
	histories := newStubHistoryRepo()
	svc := newHistoryService(histories, patients)

	for _, id := range []int64{ana.ID, anaMaria.ID} {
		if _, err := svc.Create(context.Background(), ports.CreateHistoryInput{
			PatientID:      id,
			ReasonForVisit: "checkup",
		}, 1); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	groups, err := svc.SearchByName(context.Background(), "ana")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	for _, g := range groups {
		if g.Total != len(g.Histories) {
			t.Fatalf("group total %d does not match histories %d", g.Total, len(g.Histories))
		}
	}

	if _, err := svc.SearchByName(context.Background(), "nobody"); err != domain.ErrNoSearchResults {
		t.Fatalf("expected ErrNoSearchResults, got %v", err)
	}
}

func TestClinicalHistoryService_Search_CapsRecentVisits(t *testing.T) {
	patients := newStubPatientRepo()
	seeded := patients.add(t, "700700", "Pablo", "Mejia")
	histories := newStubHistoryRepo()
	svc := newHistoryService(histories, patients)

	for i := 0; i < searchRecentLimit+5; i++ {
		if _, err := svc.Create(context.Background(), ports.CreateHistoryInput{
			PatientID:      seeded.ID,
			ReasonForVisit: fmt.Sprintf("visit %d", i),
		}, 1); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	groups, err := svc.Search(context.Background(), "700700")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Histories) != searchRecentLimit {
		t.Fatalf("expected %d histories in flexible search, got %d", searchRecentLimit, len(groups[0].Histories))
	}
}

func TestClinicalHistoryService_Delete(t *testing.T) {
	patients := newStubPatientRepo()
	seeded := patients.add(t, "600600", "Sara", "Nino")
	histories := newStubHistoryRepo()
	svc := newHistoryService(histories, patients)

	history, err := svc.Create(context.Background(), ports.CreateHistoryInput{
		PatientID:      seeded.ID,
		ReasonForVisit: "checkup",
	}, 1)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), history.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), history.ID); err != domain.ErrHistoryNotFound {
		t.Fatalf("expected ErrHistoryNotFound, got %v", err)
	}
}
