package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cujae-dev/horarios-api/internal/models"
	"github.com/cujae-dev/horarios-api/internal/service"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
	"github.com/cujae-dev/horarios-api/pkg/response"
)

// ClassTypeHandler exposes class type CRUD endpoints.
type ClassTypeHandler struct {
	service *service.ClassTypeService
}

// NewClassTypeHandler constructs a class type handler.
func NewClassTypeHandler(svc *service.ClassTypeService) *ClassTypeHandler {
	return &ClassTypeHandler{service: svc}
}

// List returns class types; inactive rows only with include_inactive=true.
func (h *ClassTypeHandler) List(c *gin.Context) {
	var filter models.ClassTypeFilter
	filter.Active, filter.Offset, filter.Limit = listParams(c)

	classTypes, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classTypes, pagination)
}

// Get returns a class type by id, active or not.
func (h *ClassTypeHandler) Get(c *gin.Context) {
	classType, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classType, nil)
}

// Create registers a new class type.
func (h *ClassTypeHandler) Create(c *gin.Context) {
	var req service.CreateClassTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	classType, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classType)
}

// Update applies a partial update to a class type.
func (h *ClassTypeHandler) Update(c *gin.Context) {
	var req service.UpdateClassTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	classType, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classType, nil)
}

// Delete soft-deletes a class type.
func (h *ClassTypeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
