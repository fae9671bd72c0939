package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-backtest/internal/dto"
)

func (h *HttpAPIHandler) SetupEvents(base *echo.Group) {
	base.POST("/events", h.ingestEvents)
}

func (h *HttpAPIHandler) ingestEvents(c echo.Context) error {
	ctx := c.Request().Context()

	req := new(dto.IngestEventsRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.service.EventService.Ingest(ctx, *req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to ingest events"})
	}

	return c.JSON(http.StatusOK, result)
}
