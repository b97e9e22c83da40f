package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ipsfulano/clinical-records-api/internal/api/metrics"
	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

// ClinicalHistoryHandler handles visit records and patient search.
type ClinicalHistoryHandler struct {
	historyService ports.ClinicalHistoryService
}

func NewClinicalHistoryHandler(historyService ports.ClinicalHistoryService) *ClinicalHistoryHandler {
	return &ClinicalHistoryHandler{historyService: historyService}
}

// Create records a visit with the authenticated user as its author.
//
// @Summary      Record visit
// @Tags         clinical-history
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHistoryRequest  true  "Visit details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /clinical-history [post]
func (h *ClinicalHistoryHandler) Create(c echo.Context) error {
	authorID, err := authedUserID(c)
	if err != nil {
		return err
	}

	var req createHistoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	history, err := h.historyService.Create(c.Request().Context(), ports.CreateHistoryInput{
		PatientID:       req.PatientID,
		ReasonForVisit:  req.ReasonForVisit,
		Symptoms:        req.Symptoms,
		Diagnosis:       req.Diagnosis,
		Treatment:       req.Treatment,
		Prescriptions:   req.Prescriptions,
		Observations:    req.Observations,
		VitalSigns:      req.VitalSigns,
		NextAppointment: req.NextAppointment,
	}, authorID)
	if err != nil {
		return err
	}

	metrics.HistoriesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, createdResponse{ID: history.ID})
}

// List returns every visit record, newest first.
//
// @Summary      List visits
// @Tags         clinical-history
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  map[string]any
// @Router       /clinical-history [get]
func (h *ClinicalHistoryHandler) List(c echo.Context) error {
	histories, err := h.historyService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, histories)
}

// ListByPatient returns one patient's visits, newest first.
//
// @Summary      List visits for a patient
// @Tags         clinical-history
// @Produce      json
// @Security     BearerAuth
// @Param        patientId  path  int  true  "Patient id"
// @Success      200  {array}  map[string]any
// @Router       /clinical-history/patient/{patientId} [get]
func (h *ClinicalHistoryHandler) ListByPatient(c echo.Context) error {
	patientID, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	histories, err := h.historyService.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, histories)
}

// GetByID returns a single visit record.
//
// @Summary      Get visit
// @Tags         clinical-history
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "History id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /clinical-history/{id} [get]
func (h *ClinicalHistoryHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	history, err := h.historyService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

// Update applies a partial update to a visit record.
//
// @Summary      Update visit
// @Tags         clinical-history
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "History id"
// @Param        body  body      updateHistoryRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /clinical-history/{id} [put]
func (h *ClinicalHistoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateHistoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	upd := ports.ClinicalHistoryUpdate{
		ReasonForVisit:  req.ReasonForVisit,
		Symptoms:        req.Symptoms,
		Diagnosis:       req.Diagnosis,
		Treatment:       req.Treatment,
		Prescriptions:   req.Prescriptions,
		Observations:    req.Observations,
		VitalSigns:      req.VitalSigns,
		NextAppointment: req.NextAppointment,
	}
	if err := h.historyService.Update(c.Request().Context(), id, upd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "clinical history updated"})
}

// Delete removes a visit record.
//
// @Summary      Delete visit
// @Tags         clinical-history
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "History id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /clinical-history/{id} [delete]
func (h *ClinicalHistoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.historyService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "clinical history deleted"})
}

// SearchByDocument resolves an exact identification number to a patient
// and all of their visits.
//
// @Summary      Search by document number
// @Tags         clinical-history
// @Produce      json
// @Security     BearerAuth
// @Param        document  path  string  true  "Identification number"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /clinical-history/search/document/{document} [get]
func (h *ClinicalHistoryHandler) SearchByDocument(c echo.Context) error {
	document := strings.TrimSpace(c.Param("document"))
	if document == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing document")
	}

	result, err := h.historyService.SearchByDocument(c.Request().Context(), document)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("document", searchOutcome(err)).Inc()
		return err
	}

	metrics.SearchesTotal.WithLabelValues("document", "hit").Inc()
	return c.JSON(http.StatusOK, result)
}

// SearchByName matches patients by partial name and returns their
// grouped histories.
//
// @Summary      Search by patient name
// @Tags         clinical-history
// @Produce      json
// @Security     BearerAuth
// @Param        name  path  string  true  "Partial name"
// @Success      200  {object}  groupedSearchResponse
// @Failure      404  {object}  map[string]string
// @Router       /clinical-history/search/name/{name} [get]
func (h *ClinicalHistoryHandler) SearchByName(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing name")
	}

	groups, err := h.historyService.SearchByName(c.Request().Context(), name)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("name", searchOutcome(err)).Inc()
		return err
	}

	metrics.SearchesTotal.WithLabelValues("name", "hit").Inc()
	return c.JSON(http.StatusOK, groupedSearchResponse{
		SearchTerm:    name,
		TotalPatients: len(groups),
		Results:       groups,
	})
}

// Search accepts a free-form term, matching identification numbers
// exactly and names partially. Each matched patient comes back with a
// trimmed projection of their most recent visits.
//
// @Summary      Flexible patient search
// @Tags         clinical-history
// @Produce      json
// @Security     BearerAuth
// @Param        term  path  string  true  "Search term"
// @Success      200  {object}  flexibleSearchResponse
// @Failure      404  {object}  map[string]string
// @Router       /clinical-history/search/{term} [get]
func (h *ClinicalHistoryHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.Param("term"))
	if term == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing search term")
	}

	groups, err := h.historyService.Search(c.Request().Context(), term)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("flexible", searchOutcome(err)).Inc()
		return err
	}

	metrics.SearchesTotal.WithLabelValues("flexible", "hit").Inc()
	return c.JSON(http.StatusOK, newFlexibleSearchResponse(term, groups))
}

func searchOutcome(err error) string {
	if errors.Is(err, domain.ErrNoSearchResults) || errors.Is(err, domain.ErrPatientNotFound) {
		return "miss"
	}
	return "error"
}
