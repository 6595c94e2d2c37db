package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/oracle-go/internal/app"
	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

// Handler exposes draws over plain HTTP, with no chat client involved:
// a JSON preview of a drawn card's settled frame, and the same card as a
// rendered share image.
type Handler struct {
	svc   *app.OracleService
	share ports.ShareRenderer
}

func NewHandler(svc *app.OracleService, share ports.ShareRenderer) *Handler {
	return &Handler{svc: svc, share: share}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/v1/card", h.DrawCard)
	e.GET("/v1/card/image", h.DrawCardImage)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) DrawCard(c echo.Context) error {
	preview, err := h.svc.Preview(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}

	requestID, _ := c.Get("request_id").(string)

	return c.JSON(http.StatusOK, CardResponse{
		Card:  preview.Card,
		Frame: preview.Frame,
		Rows:  strings.Split(preview.Frame, "\n"),
		Meta:  MetaResp{RequestID: requestID},
	})
}

func (h *Handler) DrawCardImage(c echo.Context) error {
	ctx := c.Request().Context()

	preview, err := h.svc.Preview(ctx)
	if err != nil {
		return mapError(c, err)
	}

	path, err := h.share.Render(ctx, preview.Card, 0)
	if err != nil {
		return mapError(c, err)
	}
	return c.File(path)
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrDeckEmpty):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: domain.EmptyDeckMessage})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
