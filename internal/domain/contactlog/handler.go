package contactlog

import (
	"net/http"

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
	writeGroup := api.Group("", auth.RequireRole("ambulance"))
	writeGroup.POST("/contact-logs", h.Record)

	readGroup := api.Group("", auth.RequireRole("ambulance", "hospital"))
	readGroup.GET("/contact-logs", h.List)
}

func (h *Handler) Record(c echo.Context) error {
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Record(c.Request().Context(), &e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if hid := c.QueryParam("hospital_id"); hid != "" {
		items, total, err := h.svc.ListByHospital(ctx, hid, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
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
