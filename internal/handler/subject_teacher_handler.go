package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cujae-dev/horarios-api/internal/service"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
	"github.com/cujae-dev/horarios-api/pkg/response"
)

// SubjectTeacherHandler exposes the subject-teacher association endpoints
// nested under subjects.
type SubjectTeacherHandler struct {
	service *service.SubjectTeacherService
}

// NewSubjectTeacherHandler constructs a subject teacher handler.
func NewSubjectTeacherHandler(svc *service.SubjectTeacherService) *SubjectTeacherHandler {
	return &SubjectTeacherHandler{service: svc}
}

// ListBySubject returns the teachers assigned to a subject.
func (h *SubjectTeacherHandler) ListBySubject(c *gin.Context) {
	activeOnly := c.Query("include_inactive") != "true"
	associations, err := h.service.ListBySubject(c.Request.Context(), c.Param("id"), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, associations, nil)
}

// Create assigns a teacher to a subject.
func (h *SubjectTeacherHandler) Create(c *gin.Context) {
	var req service.CreateSubjectTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	association, err := h.service.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, association)
}

// Delete soft-deletes a subject-teacher association.
func (h *SubjectTeacherHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("associationId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
