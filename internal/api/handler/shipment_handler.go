package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	service  ports.ShipmentService
	receipts ports.ReceiptGenerator
	logger   zerolog.Logger
}

func NewShipmentHandler(service ports.ShipmentService, receipts ports.ReceiptGenerator, logger zerolog.Logger) *ShipmentHandler {
	return &ShipmentHandler{service: service, receipts: receipts, logger: logger}
}

// List handles GET /v1/shipments.
//
// @Summary      List shipments visible to the caller
// @Description  Back-office roles see every shipment; other users see their recent shipments.
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listShipmentsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	records := h.service.ListShipments(c.Request().Context(), actor)
	data := make([]shipmentResponse, 0, len(records))
	for _, r := range records {
		data = append(data, toShipmentResponse(r))
	}

	scope := "user"
	if actor.IsAdmin() {
		scope = "all"
	}
	return c.JSON(http.StatusOK, listShipmentsResponse{Data: data, Total: len(data), Scope: scope})
}

// Create handles POST /v1/shipments.
//
// @Summary      Register a new shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createShipmentRequest  true  "Shipment details"
// @Success      201   {object}  mutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result := h.service.CreateShipment(c.Request().Context(), actor, toCreateInput(req))
	if !result.Success {
		return mutationError(result)
	}
	return c.JSON(http.StatusCreated, toMutationResponse(result))
}

// UpdateStatus handles PATCH /v1/shipments/:tracking_number/status.
//
// @Summary      Append a status change to a shipment
// @Description  An identical change submitted again within the dedup window is acknowledged without reaching the backend.
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        tracking_number  path      string               true  "Tracking number"
// @Param        body             body      updateStatusRequest  true  "New status"
// @Success      200              {object}  mutationResponse
// @Failure      400              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Failure      502              {object}  errorResponse
// @Router       /v1/shipments/{tracking_number}/status [patch]
func (h *ShipmentHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	trackingNumber := strings.TrimSpace(c.Param("tracking_number"))
	if trackingNumber == "" {
		return domain.ErrMissingTrackingNumber
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result := h.service.UpdateStatus(c.Request().Context(), actor, trackingNumber, toStatusInput(req))
	if !result.Success {
		return mutationError(result)
	}
	return c.JSON(http.StatusOK, toMutationResponse(result))
}

// Receipt handles GET /v1/shipments/:tracking_number/receipt.
//
// @Summary      Download a shipment receipt
// @Tags         shipments
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        tracking_number  path      string  true  "Tracking number"
// @Success      200              {file}    binary
// @Failure      401              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /v1/shipments/{tracking_number}/receipt [get]
func (h *ShipmentHandler) Receipt(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	record, err := h.service.GetShipment(c.Request().Context(), actor, c.Param("tracking_number"))
	if err != nil {
		return err
	}

	data, err := h.receipts.Generate(*record)
	if err != nil {
		return err
	}
	h.service.RecordReceipt(actor, record.TrackingNumber)

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", receiptFilename(record.TrackingNumber)))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func receiptFilename(trackingNumber string) string {
	return "receipt-" + trackingNumber + ".pdf"
}

// mutationError turns a failed MutationResult into an HTTP error. Backend
// rejections carry a reason and are 422; an unreachable backend is 502.
func mutationError(r ports.MutationResult) error {
	switch {
	case r.Unavailable:
		return echo.NewHTTPError(http.StatusBadGateway, r.Error)
	case r.Error == domain.ErrMissingTrackingNumber.Error():
		return echo.NewHTTPError(http.StatusBadRequest, r.Error)
	default:
		return echo.NewHTTPError(http.StatusUnprocessableEntity, r.Error)
	}
}
