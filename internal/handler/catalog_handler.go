package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/dto"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/service"
	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/response"
)

type catalogBrowser interface {
	ListSections(ctx context.Context, query dto.SectionQuery) ([]models.CourseSection, int, error)
	GetSection(ctx context.Context, id string) (*models.CourseSection, error)
	SectionSchedule(ctx context.Context, id string) ([]models.Schedule, error)
	ListClassrooms(ctx context.Context, query dto.ClassroomQuery) ([]models.Classroom, int, error)
	GetClassroom(ctx context.Context, id string) (*models.Classroom, error)
	ListStudents(ctx context.Context, query dto.StudentQuery) ([]models.Student, int, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
}

// CatalogHandler exposes read-only section, classroom and student browsing.
type CatalogHandler struct {
	service catalogBrowser
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListSections godoc
// @Summary List course sections
// @Tags Catalog
// @Produce json
// @Param semester query string false "Semester" Enums(Fall, Spring, Summer)
// @Param year query int false "Year"
// @Param courseId query string false "Filter by course"
// @Param instructorId query string false "Filter by instructor"
// @Success 200 {object} response.Envelope
// @Router /sections [get]
func (h *CatalogHandler) ListSections(c *gin.Context) {
	var query dto.SectionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid section query"))
		return
	}
	sections, total, err := h.service.ListSections(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, &models.Pagination{Page: 1, PageSize: len(sections), TotalCount: total})
}

// GetSection godoc
// @Summary Get one course section
// @Tags Catalog
// @Produce json
// @Param id path string true "Section id"
// @Success 200 {object} response.Envelope
// @Router /sections/{id} [get]
func (h *CatalogHandler) GetSection(c *gin.Context) {
	section, err := h.service.GetSection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// SectionSchedule godoc
// @Summary List the persisted meetings of one section
// @Tags Catalog
// @Produce json
// @Param id path string true "Section id"
// @Success 200 {object} response.Envelope
// @Router /sections/{id}/schedule [get]
func (h *CatalogHandler) SectionSchedule(c *gin.Context) {
	meetings, err := h.service.SectionSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// ListClassrooms godoc
// @Summary List classrooms
// @Tags Catalog
// @Produce json
// @Param building query string false "Filter by building"
// @Param minCapacity query int false "Minimum capacity"
// @Param feature query string false "Required feature"
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *CatalogHandler) ListClassrooms(c *gin.Context) {
	var query dto.ClassroomQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid classroom query"))
		return
	}
	rooms, total, err := h.service.ListClassrooms(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, &models.Pagination{Page: 1, PageSize: len(rooms), TotalCount: total})
}

// GetClassroom godoc
// @Summary Get one classroom
// @Tags Catalog
// @Produce json
// @Param id path string true "Classroom id"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *CatalogHandler) GetClassroom(c *gin.Context) {
	room, err := h.service.GetClassroom(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// ListStudents godoc
// @Summary List students
// @Tags Catalog
// @Produce json
// @Param search query string false "Name or student number search"
// @Param departmentId query string false "Filter by department"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *CatalogHandler) ListStudents(c *gin.Context) {
	var query dto.StudentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student query"))
		return
	}
	students, total, err := h.service.ListStudents(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, &models.Pagination{Page: 1, PageSize: len(students), TotalCount: total})
}

// GetStudent godoc
// @Summary Get one student
// @Tags Catalog
// @Produce json
// @Param id path string true "Student id"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *CatalogHandler) GetStudent(c *gin.Context) {
	student, err := h.service.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}
