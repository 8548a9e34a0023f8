package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cujae-dev/horarios-api/internal/models"
	"github.com/cujae-dev/horarios-api/internal/service"
	appErrors "github.com/cujae-dev/horarios-api/pkg/errors"
	"github.com/cujae-dev/horarios-api/pkg/response"
)

// ScheduleHandler exposes schedule slot CRUD and export endpoints.
type ScheduleHandler struct {
	service   *service.ScheduleService
	timetable *service.TimetableService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *service.ScheduleService, timetable *service.TimetableService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, timetable: timetable}
}

// List returns slots filtered by semester, teacher or subject; inactive
// rows only with include_inactive=true.
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter models.ScheduleFilter
	filter.Active, filter.Offset, filter.Limit = listParams(c)
	filter.Semester = strings.TrimSpace(c.Query("semester"))
	filter.TeacherID = c.Query("teacher_id")
	filter.SubjectID = c.Query("subject_id")

	schedules, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// Get returns a slot by id, active or not.
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Create registers a new slot after conflict checks.
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Update applies a partial update to a slot, re-running conflict checks.
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	schedule, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Delete soft-deletes a slot.
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportWeekly streams the full semester timetable as a file download.
// Format defaults to xlsx; csv and pdf are also accepted.
func (h *ScheduleHandler) ExportWeekly(c *gin.Context) {
	file, err := h.timetable.Export(c.Request.Context(), c.Param("semester"), "", c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// ExportTeacher streams one teacher's timetable as a file download.
func (h *ScheduleHandler) ExportTeacher(c *gin.Context) {
	file, err := h.timetable.Export(c.Request.Context(), c.Param("semester"), c.Param("teacherId"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
