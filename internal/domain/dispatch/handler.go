package dispatch

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/resqlink/resqlink/internal/platform/auth"
	"github.com/resqlink/resqlink/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	send := api.Group("", auth.RequireRole("ambulance"))
	send.POST("/dispatch-requests", h.Send)

	resolve := api.Group("", auth.RequireRole("hospital"))
	resolve.POST("/dispatch-requests/:id/resolve", h.Resolve)

	read := api.Group("", auth.RequireRole("ambulance", "hospital"))
	read.GET("/dispatch-requests", h.List)
	read.GET("/dispatch-requests/:id", h.Get)
}

type sendBody struct {
	AmbulanceID  string `json:"ambulance_id"`
	HospitalID   string `json:"hospital_id"`
	PatientID    string `json:"patient_id"`
	PredictionID string `json:"prediction_id"`
}

func (h *Handler) Send(c echo.Context) error {
	var body sendBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key := uuid.New()
	if raw := c.Request().Header.Get("Idempotency-Key"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key must be a UUID")
		}
		key = parsed
	}

	req, err := h.svc.Send(c.Request().Context(), SendCommand{
		AmbulanceID:  body.AmbulanceID,
		HospitalID:   body.HospitalID,
		PatientID:    body.PatientID,
		PredictionID: body.PredictionID,
		Key:          key,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownAmbulance), errors.Is(err, ErrUnknownPatient):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrDuplicateRequest):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, req)
}

type resolveBody struct {
	Status string `json:"status"`
}

func (h *Handler) Resolve(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	var body resolveBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	req, err := h.svc.Resolve(c.Request().Context(), id, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrAlreadyResolved):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}
	req, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if hid := c.QueryParam("hospital_id"); hid != "" {
		items, total, err := h.svc.ListByHospital(ctx, hid, c.QueryParam("status"), pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	if aid := c.QueryParam("ambulance_id"); aid != "" {
		items, total, err := h.svc.ListByAmbulance(ctx, aid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}
	return echo.NewHTTPError(http.StatusBadRequest, "hospital_id or ambulance_id is required")
}
