package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ipsfulano/clinical-records-api/internal/api/metrics"
	"github.com/ipsfulano/clinical-records-api/internal/core/ports"
)

// PatientHandler handles patient record management.
type PatientHandler struct {
	patientService ports.PatientService
}

func NewPatientHandler(patientService ports.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// Create registers a patient, recording the authenticated user as the
// creator.
//
// @Summary      Register patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient details"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	creatorID, err := authedUserID(c)
	if err != nil {
		return err
	}

	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patient, err := h.patientService.Create(c.Request().Context(), ports.CreatePatientInput{
		Identification:   req.Identification,
		DocumentType:     req.DocumentType,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		BloodType:        req.BloodType,
		Allergies:        req.Allergies,
	}, creatorID)
	if err != nil {
		return err
	}

	metrics.PatientsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, createdResponse{ID: patient.ID})
}

// List returns every patient joined with the creator's name.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   map[string]any
// @Router       /patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	patients, err := h.patientService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// GetByID returns a single patient.
//
// @Summary      Get patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Patient id"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Router       /patients/{id} [get]
func (h *PatientHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	patient, err := h.patientService.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

// Update applies a partial update to a patient record.
//
// @Summary      Update patient
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Patient id"
// @Param        body  body      updatePatientRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /patients/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	upd := ports.PatientUpdate{
		Identification:   req.Identification,
		DocumentType:     req.DocumentType,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		BloodType:        req.BloodType,
		Allergies:        req.Allergies,
	}
	if err := h.patientService.Update(c.Request().Context(), id, upd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "patient updated"})
}

// Delete hard-deletes a patient and, through the store cascade, all of
// their clinical histories.
//
// @Summary      Delete patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Patient id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /patients/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.patientService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "patient deleted"})
}
