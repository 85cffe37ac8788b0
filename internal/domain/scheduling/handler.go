package scheduling

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-server/pkg/pagination"
)

// Handler exposes the scheduling engine over HTTP.
type Handler struct {
	svc  *Service
	proj *Projector
}

func NewHandler(svc *Service, proj *Projector) *Handler {
	return &Handler{svc: svc, proj: proj}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Book)
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/:id", h.GetAppointment)
	api.POST("/appointments/:id/status", h.Transition)
	api.POST("/appointments/:id/cancel", h.Cancel)
	api.PATCH("/appointments/:id/notes", h.UpdateNotes)
	api.GET("/calendar/day", h.DayCalendar)
	api.GET("/calendar/week", h.WeekCalendar)
}

// httpError maps engine errors onto HTTP status codes.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSlotInPast):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) Book(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.Book(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

type transitionRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) Transition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.Transition(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	appt, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) UpdateNotes(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req notesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	appt, err := h.svc.UpdateNotes(c.Request().Context(), id, req.Notes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()

	if doctorID := c.QueryParam("doctor_id"); doctorID != "" {
		did, err := uuid.Parse(doctorID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		from, to := c.QueryParam("from"), c.QueryParam("to")
		if from != "" && to != "" {
			items, err := h.svc.ListForDoctorRange(ctx, did, from, to)
			if err != nil {
				return httpError(err)
			}
			return c.JSON(http.StatusOK, items)
		}
		pg := pagination.FromContext(c)
		items, total, err := h.svc.ListByDoctor(ctx, did, pg.Limit, pg.Offset)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	if patientID := c.QueryParam("patient_id"); patientID != "" {
		pid, err := uuid.Parse(patientID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		pg := pagination.FromContext(c)
		items, total, err := h.svc.ListByPatient(ctx, pid, pg.Limit, pg.Offset)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	return echo.NewHTTPError(http.StatusBadRequest, "doctor_id or patient_id query parameter required")
}

func (h *Handler) DayCalendar(c echo.Context) error {
	did, err := uuid.Parse(c.QueryParam("doctor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date query parameter required")
	}
	views, err := h.proj.ProjectDay(c.Request().Context(), did, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) WeekCalendar(c echo.Context) error {
	did, err := uuid.Parse(c.QueryParam("doctor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	anchor := c.QueryParam("anchor")
	if anchor == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "anchor query parameter required")
	}
	week, err := h.proj.ProjectWeek(c.Request().Context(), did, anchor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, week)
}
