package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

type stubHistoryService struct {
	createFn       func(ctx context.Context, input ports.CreateHistoryInput, authorID int64) (*domain.ClinicalHistory, error)
	searchFn       func(ctx context.Context, term string) ([]*domain.PatientHistories, error)
	searchByDocFn  func(ctx context.Context, document string) (*ports.DocumentSearchResult, error)
	searchByNameFn func(ctx context.Context, name string) ([]*domain.PatientHistories, error)
}

func (s *stubHistoryService) Create(ctx context.Context, input ports.CreateHistoryInput, authorID int64) (*domain.ClinicalHistory, error) {
	return s.createFn(ctx, input, authorID)
}

func (s *stubHistoryService) List(ctx context.Context) ([]*domain.ClinicalHistory, error) {
	return nil, nil
}

func (s *stubHistoryService) ListByPatient(ctx context.Context, patientID int64) ([]*domain.ClinicalHistory, error) {
	return nil, nil
}

func (s *stubHistoryService) GetByID(ctx context.Context, id int64) (*domain.ClinicalHistory, error) {
	return nil, domain.ErrHistoryNotFound
}

func (s *stubHistoryService) Update(ctx context.Context, id int64, upd ports.ClinicalHistoryUpdate) error {
	return domain.ErrHistoryNotFound
}

func (s *stubHistoryService) Delete(ctx context.Context, id int64) error {
	return domain.ErrHistoryNotFound
}

func (s *stubHistoryService) SearchByDocument(ctx context.Context, document string) (*ports.DocumentSearchResult, error) {
	return s.searchByDocFn(ctx, document)
}

func (s *stubHistoryService) SearchByName(ctx context.Context, name string) ([]*domain.PatientHistories, error) {
	return s.searchByNameFn(ctx, name)
}

func (s *stubHistoryService) Search(ctx context.Context, term string) ([]*domain.PatientHistories, error) {
	return s.searchFn(ctx, term)
}

func TestClinicalHistoryHandler_Create_PassesAuthor(t *testing.T) {
	stub := &stubHistoryService{
		createFn: func(ctx context.Context, input ports.CreateHistoryInput, authorID int64) (*domain.ClinicalHistory, error) {
			if authorID != 9 {
				t.Fatalf("expected author 9, got %d", authorID)
			}
			if input.PatientID != 5 || input.ReasonForVisit != "checkup" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.ClinicalHistory{ID: 77, PatientID: input.PatientID, DoctorID: authorID}, nil
		},
	}
	handler := NewClinicalHistoryHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/clinical-history", `{"patient_id":5,"reason_for_visit":"checkup"}`)
	c.Set("user_id", int64(9))

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(77) {
		t.Fatalf("unexpected id: %v", resp["id"])
	}
}

func TestClinicalHistoryHandler_Search_ResponseShape(t *testing.T) {
	stub := &stubHistoryService{
		searchFn: func(ctx context.Context, term string) ([]*domain.PatientHistories, error) {
			if term != "ana" {
				t.Fatalf("unexpected term: %s", term)
			}
			return []*domain.PatientHistories{
				{
					Patient:   &domain.Patient{ID: 1, FirstName: "Ana", LastName: "Martinez"},
					Histories: []*domain.ClinicalHistory{{ID: 10, PatientID: 1}},
					Total:     1,
				},
			}, nil
		},
	}
	handler := NewClinicalHistoryHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/clinical-history/search/ana", "")
	c.SetParamNames("term")
	c.SetParamValues("ana")

	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["search_term"] != "ana" {
		t.Fatalf("expected echoed search term, got %v", resp["search_term"])
	}
	if resp["total_patients"] != float64(1) {
		t.Fatalf("expected 1 matched patient, got %v", resp["total_patients"])
	}
	results, ok := resp["results"].([]any)
	if !ok || len(results) != 1 {
		t.Fatalf("unexpected results: %v", resp["results"])
	}
	group, ok := results[0].(map[string]any)
	if !ok || group["total_histories"] != float64(1) {
		t.Fatalf("unexpected group payload: %v", results[0])
	}
	patient, ok := group["patient"].(map[string]any)
	if !ok || patient["full_name"] != "Ana Martinez" {
		t.Fatalf("unexpected patient summary: %v", group["patient"])
	}
	visits, ok := group["recent_histories"].([]any)
	if !ok || len(visits) != 1 {
		t.Fatalf("unexpected recent histories: %v", group["recent_histories"])
	}
	visit, ok := visits[0].(map[string]any)
	if !ok || visit["id"] != float64(10) {
		t.Fatalf("unexpected visit projection: %v", visits[0])
	}
	if _, full := visit["patient_id"]; full {
		t.Fatalf("expected trimmed visit projection, got %v", visit)
	}
}

func TestClinicalHistoryHandler_Search_MissingTerm(t *testing.T) {
	stub := &stubHistoryService{
		searchFn: func(ctx context.Context, term string) ([]*domain.PatientHistories, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewClinicalHistoryHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/api/clinical-history/search/%20", "")
	c.SetParamNames("term")
	c.SetParamValues(" ")
	err := handler.Search(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestClinicalHistoryHandler_SearchByDocument(t *testing.T) {
	stub := &stubHistoryService{
		searchByDocFn: func(ctx context.Context, document string) (*ports.DocumentSearchResult, error) {
			if document != "900100" {
				t.Fatalf("unexpected document: %s", document)
			}
			return &ports.DocumentSearchResult{
				Patient:   &domain.Patient{ID: 2, Identification: document},
				Histories: []*domain.ClinicalHistory{{ID: 20, PatientID: 2}, {ID: 21, PatientID: 2}},
				Total:     2,
			}, nil
		},
	}
	handler := NewClinicalHistoryHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/clinical-history/search/document/900100", "")
	c.SetParamNames("document")
	c.SetParamValues("900100")

	if err := handler.SearchByDocument(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(2) {
		t.Fatalf("expected total 2, got %v", resp["total"])
	}
}

func TestClinicalHistoryHandler_SearchByName_NoResults(t *testing.T) {
	stub := &stubHistoryService{
		searchByNameFn: func(ctx context.Context, name string) ([]*domain.PatientHistories, error) {
			return nil, domain.ErrNoSearchResults
		},
	}
	handler := NewClinicalHistoryHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/api/clinical-history/search/name/nobody", "")
	c.SetParamNames("name")
	c.SetParamValues("nobody")

	if err := handler.SearchByName(c); err != domain.ErrNoSearchResults {
		t.Fatalf("expected ErrNoSearchResults, got %v", err)
	}
}
