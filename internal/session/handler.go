package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/resqlink/resqlink/internal/domain/dispatch"
	"github.com/resqlink/resqlink/internal/platform/auth"
	"github.com/resqlink/resqlink/internal/platform/classifier"
)

// Handler is the operator-facing HTTP surface of the session core. Every
// route is synchronous; the session starts whatever async work the change
// implies and the client observes it through the snapshot.
type Handler struct {
	registry *Registry
	dispatch *dispatch.Service
}

func NewHandler(registry *Registry, dispatchSvc *dispatch.Service) *Handler {
	return &Handler{registry: registry, dispatch: dispatchSvc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/sessions", auth.RequireRole("ambulance"))
	g.POST("", h.Login)
	g.DELETE("/:id", h.Logout)
	g.GET("/:id", h.Get)
	g.GET("/:id/events", h.Events)
	g.POST("/:id/symptoms", h.AddSymptom)
	g.PUT("/:id/symptoms", h.ReplaceSymptoms)
	g.DELETE("/:id/symptoms/:symptom", h.RemoveSymptom)
	g.POST("/:id/vitals", h.AppendVitals)
	g.PUT("/:id/location", h.SetLocation)
	g.POST("/:id/dispatch", h.SendDispatch)
}

func (h *Handler) session(c echo.Context) (*Session, error) {
	s, ok := h.registry.Get(c.Param("id"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "no active session for this ambulance")
	}
	return s, nil
}

type loginBody struct {
	AmbulanceID string `json:"ambulance_id"`
	PatientID   string `json:"patient_id"`
}

func (h *Handler) Login(c echo.Context) error {
	var body loginBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s, err := h.registry.Login(c.Request().Context(), body.AmbulanceID, body.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, s.Snapshot())
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.registry.Logout(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Get(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

// Events streams the session snapshot as server-sent events: one event
// immediately, then one per visible state change, until the client
// disconnects or the session ends.
func (h *Handler) Events(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	write := func() error {
		data, err := json.Marshal(s.Snapshot())
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		w.Flush()
		return nil
	}
	if err := write(); err != nil {
		return err
	}

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case <-s.Done():
			return nil
		case <-updates:
			if err := write(); err != nil {
				return err
			}
		}
	}
}

type symptomBody struct {
	Symptom  string   `json:"symptom"`
	Symptoms []string `json:"symptoms"`
}

func (h *Handler) AddSymptom(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var body symptomBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Symptom == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "symptom is required")
	}
	s.AddSymptom(body.Symptom)
	return c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handler) ReplaceSymptoms(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var body symptomBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.ReplaceSymptoms(body.Symptoms)
	return c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handler) RemoveSymptom(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	s.RemoveSymptom(c.Param("symptom"))
	return c.JSON(http.StatusOK, s.Snapshot())
}

func (h *Handler) AppendVitals(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var v classifier.Vitals
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.AppendVitals(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

type locationBody struct {
	Mode string  `json:"mode"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (h *Handler) SetLocation(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var body locationBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	switch body.Mode {
	case ModeLive:
		err = s.StartLive()
	case ModeOverride:
		err = s.SetOverride(body.Lat, body.Lng)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "mode must be live or override")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, s.Snapshot())
}

type dispatchBody struct {
	HospitalID string `json:"hospital_id"`
}

// SendDispatch turns a hospital selection into a dispatch request bound to
// the prediction current at this moment.
func (h *Handler) SendDispatch(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var body dispatchBody
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

	var predictionID string
	if p := s.CurrentPrediction(); p != nil {
		predictionID = p.ID
	}

	req, err := h.dispatch.Send(c.Request().Context(), dispatch.SendCommand{
		AmbulanceID:  s.AmbulanceID,
		HospitalID:   body.HospitalID,
		PatientID:    s.PatientID,
		PredictionID: predictionID,
		Key:          key,
	})
	if err != nil {
		switch {
		case errors.Is(err, dispatch.ErrUnknownAmbulance), errors.Is(err, dispatch.ErrUnknownPatient):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, dispatch.ErrDuplicateRequest):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, req)
}
