package store

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler exposes the store's operations over HTTP for screen components
// and the data-fetch layer. Update endpoints mirror the store's no-op
// semantics: an unknown id is not an error.
type Handler struct {
	store *MedicalDataStore
}

func NewHandler(s *MedicalDataStore) *Handler {
	return &Handler{store: s}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patient", h.GetPatient)
	api.PUT("/patient", h.SetPatient)
	api.PATCH("/patient", h.UpdatePatient)

	api.GET("/vitals", h.ListVitals)
	api.PUT("/vitals", h.SetVitals)
	api.POST("/vitals", h.AddVital)
	api.GET("/vitals/latest", h.LatestVitals)
	api.GET("/vitals/trend", h.VitalTrend)

	api.GET("/lab-results", h.ListLabResults)
	api.PUT("/lab-results", h.SetLabResults)
	api.POST("/lab-results", h.AddLabResult)
	api.PATCH("/lab-results/:id", h.UpdateLabResult)
	api.GET("/lab-results/pending", h.PendingLabs)
	api.GET("/lab-results/abnormal", h.AbnormalLabs)

	api.GET("/medications", h.ListMedications)
	api.PUT("/medications", h.SetMedications)
	api.POST("/medications", h.AddMedication)
	api.PATCH("/medications/:id", h.UpdateMedication)
	api.GET("/medications/active", h.ActiveMedications)

	api.GET("/appointments", h.ListAppointments)
	api.PUT("/appointments", h.SetAppointments)
	api.POST("/appointments", h.AddAppointment)
	api.PATCH("/appointments/:id", h.UpdateAppointment)
	api.POST("/appointments/:id/cancel", h.CancelAppointment)
	api.GET("/appointments/upcoming", h.UpcomingAppointments)

	api.GET("/diagnoses", h.ListDiagnoses)
	api.PUT("/diagnoses", h.SetDiagnoses)
	api.POST("/diagnoses", h.AddDiagnosis)
	api.PATCH("/diagnoses/:id", h.UpdateDiagnosis)
	api.GET("/diagnoses/active", h.ActiveDiagnoses)
	api.GET("/diagnoses/cancer", h.CancerDiagnoses)

	api.GET("/screenings", h.ListScreenings)
	api.PUT("/screenings", h.SetScreenings)
	api.POST("/screenings", h.AddScreening)
	api.PATCH("/screenings/:id", h.UpdateScreening)
	api.GET("/screenings/overdue", h.OverdueScreenings)

	api.GET("/treatment-plans", h.ListTreatmentPlans)
	api.PUT("/treatment-plans", h.SetTreatmentPlans)
	api.POST("/treatment-plans", h.AddTreatmentPlan)
	api.PATCH("/treatment-plans/:id", h.UpdateTreatmentPlan)
	api.GET("/treatment-plans/active", h.ActiveTreatments)

	api.GET("/summary", h.Summary)
	api.POST("/session/clear", h.ClearAll)
}

// -- Patient --

func (h *Handler) GetPatient(c echo.Context) error {
	p := h.store.Patient()
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no patient profile set")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) SetPatient(c echo.Context) error {
	var p PatientProfile
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetPatient(p)
	return c.JSON(http.StatusOK, h.store.Patient())
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var p PatientProfilePatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.UpdatePatient(p)
	return c.NoContent(http.StatusNoContent)
}

// -- Vitals --

func (h *Handler) ListVitals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Vitals())
}

func (h *Handler) SetVitals(c echo.Context) error {
	var vitals []VitalSign
	if err := c.Bind(&vitals); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetVitals(vitals)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddVital(c echo.Context) error {
	var v VitalSign
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.AddVital(v)
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) LatestVitals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.LatestVitals())
}

func (h *Handler) VitalTrend(c echo.Context) error {
	vitalType := c.QueryParam("type")
	if vitalType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type query parameter is required")
	}
	days := 30
	if d := c.QueryParam("days"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid days")
		}
		days = parsed
	}
	return c.JSON(http.StatusOK, h.store.VitalTrend(vitalType, days))
}

// -- Lab results --

func (h *Handler) ListLabResults(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.LabResults())
}

func (h *Handler) SetLabResults(c echo.Context) error {
	var labs []LabResult
	if err := c.Bind(&labs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetLabResults(labs)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddLabResult(c echo.Context) error {
	var l LabResult
	if err := c.Bind(&l); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.AddLabResult(l)
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) UpdateLabResult(c echo.Context) error {
	var p LabResultPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.UpdateLabResult(c.Param("id"), p)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) PendingLabs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.PendingLabs())
}

func (h *Handler) AbnormalLabs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.AbnormalLabs())
}

// -- Medications --

func (h *Handler) ListMedications(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Medications())
}

func (h *Handler) SetMedications(c echo.Context) error {
	var meds []Medication
	if err := c.Bind(&meds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetMedications(meds)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.AddMedication(m)
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	var p MedicationPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.UpdateMedication(c.Param("id"), p)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ActiveMedications(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.ActiveMedications())
}

// -- Appointments --

func (h *Handler) ListAppointments(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Appointments())
}

func (h *Handler) SetAppointments(c echo.Context) error {
	var appts []Appointment
	if err := c.Bind(&appts); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetAppointments(appts)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddAppointment(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.AddAppointment(a)
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	var p AppointmentPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.UpdateAppointment(c.Param("id"), p)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CancelAppointment(c echo.Context) error {
	h.store.CancelAppointment(c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpcomingAppointments(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.UpcomingAppointments())
}

// -- Diagnoses --

func (h *Handler) ListDiagnoses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Diagnoses())
}

func (h *Handler) SetDiagnoses(c echo.Context) error {
	var dx []Diagnosis
	if err := c.Bind(&dx); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetDiagnoses(dx)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddDiagnosis(c echo.Context) error {
	var d Diagnosis
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.AddDiagnosis(d)
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) UpdateDiagnosis(c echo.Context) error {
	var p DiagnosisPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.UpdateDiagnosis(c.Param("id"), p)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ActiveDiagnoses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.ActiveDiagnoses())
}

func (h *Handler) CancerDiagnoses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.CancerDiagnoses())
}

// -- Screenings --

func (h *Handler) ListScreenings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Screenings())
}

func (h *Handler) SetScreenings(c echo.Context) error {
	var scr []CancerScreening
	if err := c.Bind(&scr); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetScreenings(scr)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddScreening(c echo.Context) error {
	var s CancerScreening
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.AddScreening(s)
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) UpdateScreening(c echo.Context) error {
	var p CancerScreeningPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.UpdateScreening(c.Param("id"), p)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) OverdueScreenings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.OverdueScreenings())
}

// -- Treatment plans --

func (h *Handler) ListTreatmentPlans(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.TreatmentPlans())
}

func (h *Handler) SetTreatmentPlans(c echo.Context) error {
	var plans []TreatmentPlan
	if err := c.Bind(&plans); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.SetTreatmentPlans(plans)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddTreatmentPlan(c echo.Context) error {
	var p TreatmentPlan
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.AddTreatmentPlan(p)
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) UpdateTreatmentPlan(c echo.Context) error {
	var p TreatmentPlanPatch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.store.UpdateTreatmentPlan(c.Param("id"), p)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ActiveTreatments(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.ActiveTreatments())
}

// -- Summary / session --

func (h *Handler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Summary())
}

func (h *Handler) ClearAll(c echo.Context) error {
	h.store.ClearAll()
	return c.NoContent(http.StatusNoContent)
}
