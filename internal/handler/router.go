package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every route handler of the API.
type Handlers struct {
	Subjects        *SubjectHandler
	Teachers        *TeacherHandler
	ClassTypes      *ClassTypeHandler
	Classrooms      *ClassroomHandler
	Schedules       *ScheduleHandler
	SubjectTeachers *SubjectTeacherHandler
}

// RegisterRoutes mounts every endpoint under the API prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	api := r.Group(prefix)

	subjects := api.Group("/subjects")
	subjects.GET("", h.Subjects.List)
	subjects.POST("", h.Subjects.Create)
	subjects.GET("/:id", h.Subjects.Get)
	subjects.PUT("/:id", h.Subjects.Update)
	subjects.DELETE("/:id", h.Subjects.Delete)
	subjects.GET("/:id/teachers", h.SubjectTeachers.ListBySubject)
	subjects.POST("/:id/teachers", h.SubjectTeachers.Create)
	subjects.DELETE("/:id/teachers/:associationId", h.SubjectTeachers.Delete)

	teachers := api.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.POST("", h.Teachers.Create)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.PUT("/:id", h.Teachers.Update)
	teachers.DELETE("/:id", h.Teachers.Delete)

	classTypes := api.Group("/class-types")
	classTypes.GET("", h.ClassTypes.List)
	classTypes.POST("", h.ClassTypes.Create)
	classTypes.GET("/:id", h.ClassTypes.Get)
	classTypes.PUT("/:id", h.ClassTypes.Update)
	classTypes.DELETE("/:id", h.ClassTypes.Delete)

	classrooms := api.Group("/classrooms")
	classrooms.GET("", h.Classrooms.List)
	classrooms.POST("", h.Classrooms.Create)
	classrooms.GET("/:id", h.Classrooms.Get)
	classrooms.PUT("/:id", h.Classrooms.Update)
	classrooms.DELETE("/:id", h.Classrooms.Delete)

	schedules := api.Group("/schedules")
	schedules.GET("", h.Schedules.List)
	schedules.POST("", h.Schedules.Create)
	schedules.GET("/:id", h.Schedules.Get)
	schedules.PUT("/:id", h.Schedules.Update)
	schedules.DELETE("/:id", h.Schedules.Delete)

	// Exports live on their own prefix; a static "export" segment under
	// /schedules would collide with the :id wildcard in gin's tree.
	exports := api.Group("/export")
	exports.GET("/weekly/:semester", h.Schedules.ExportWeekly)
	exports.GET("/teacher/:teacherId/:semester", h.Schedules.ExportTeacher)
}
