package handlers

import (
	"errors"
	"net/http"

	request "garage_billing/internal/adapter/http/dto/request"
	response "garage_billing/internal/adapter/http/dto/response"
	"garage_billing/internal/domain/entities"
	"garage_billing/internal/usecase"
	"garage_billing/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPartPayload = pkg.NewDomainErrorSimple("INVALID_PART_INPUT", "Invalid part payload", http.StatusBadRequest)
)

type PartHandler struct {
	usecase usecase.IPartUseCase
}

func NewPartHandler(uc usecase.IPartUseCase) *PartHandler {
	return &PartHandler{usecase: uc}
}

func (h *PartHandler) CreatePart(c *gin.Context) {
	var payload request.PartRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPartPayload.HTTPStatus, errInvalidPartPayload.ToHTTPError())
		return
	}

	part, err := h.usecase.Create(c.Request.Context(), usecase.CreatePartInput{
		Name:          payload.Name,
		Description:   payload.Description,
		PartNumber:    payload.PartNumber,
		Category:      payload.Category,
		Price:         payload.Price,
		CostPrice:     payload.CostPrice,
		StockQuantity: payload.StockQuantity,
		MinStockLevel: payload.MinStockLevel,
		Unit:          payload.Unit,
		Supplier:      payload.Supplier,
	})
	if err != nil {
		appErr := mapPartError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromPart(part))
}

func (h *PartHandler) GetPart(c *gin.Context) {
	part, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapPartError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPart(part))
}

// ListParts supports two filters: part_number resolves a single part, low_stock
// narrows to parts at or below their minimum level.
func (h *PartHandler) ListParts(c *gin.Context) {
	if partNumber := c.Query("part_number"); partNumber != "" {
		part, err := h.usecase.GetByPartNumber(c.Request.Context(), partNumber)
		if err != nil {
			appErr := mapPartError(err)
			c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.JSON(http.StatusOK, response.FromParts([]entities.Part{part}))
		return
	}

	var (
		parts []entities.Part
		err   error
	)
	if c.Query("low_stock") == "true" {
		parts, err = h.usecase.ListLowStock(c.Request.Context())
	} else {
		parts, err = h.usecase.ListAll(c.Request.Context())
	}
	if err != nil {
		appErr := mapPartError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromParts(parts))
}

func (h *PartHandler) UpdatePart(c *gin.Context) {
	var payload request.UpdatePartRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPartPayload.HTTPStatus, errInvalidPartPayload.ToHTTPError())
		return
	}

	part, err := h.usecase.Update(c.Request.Context(), c.Param("id"), usecase.CreatePartInput{
		Name:          payload.Name,
		Description:   payload.Description,
		Category:      payload.Category,
		Price:         payload.Price,
		CostPrice:     payload.CostPrice,
		MinStockLevel: payload.MinStockLevel,
		Unit:          payload.Unit,
		Supplier:      payload.Supplier,
	})
	if err != nil {
		appErr := mapPartError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPart(part))
}

func (h *PartHandler) UpdateStock(c *gin.Context) {
	var payload request.UpdateStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidPartPayload.HTTPStatus, errInvalidPartPayload.ToHTTPError())
		return
	}

	part, err := h.usecase.UpdateStock(c.Request.Context(), c.Param("id"), payload.Quantity)
	if err != nil {
		appErr := mapPartError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromPart(part))
}

func (h *PartHandler) DeletePart(c *gin.Context) {
	if err := h.usecase.Remove(c.Request.Context(), c.Param("id")); err != nil {
		appErr := mapPartError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.Status(http.StatusNoContent)
}

func mapPartError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidPartID), errors.Is(err, usecase.ErrInvalidPart):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPartAlreadyExists):
		return pkg.NewDomainErrorSimple("PART_ALREADY_EXISTS", "Part with this part number already exists", http.StatusConflict)
	case errors.Is(err, usecase.ErrPartNotFound):
		return pkg.NewDomainErrorSimple("PART_NOT_FOUND", "Part not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
