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

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
	Save(ctx context.Context, req dto.SaveTimetableRequest) (*dto.SaveTimetableResponse, error)
	List(ctx context.Context, query dto.TimetableQuery) ([]models.ScheduleDetail, int, error)
	ExportCSV(ctx context.Context, query dto.TimetableQuery) ([]byte, error)
	SavePreference(ctx context.Context, instructorID string, req dto.SavePreferenceRequest) (*models.InstructorPreference, error)
}

// TimetableHandler exposes timetable generation endpoints.
type TimetableHandler struct {
	service timetableGenerator
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Generate godoc
// @Summary Generate a timetable proposal for a semester
// @Description Runs the constraint-based engine over the semester's sections, classrooms and enrollments. A successful run returns a proposal id; an unsatisfiable run returns success=false with the affected sections.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GenerateTimetableRequest true "Generate timetable payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Save godoc
// @Summary Persist a generated timetable proposal
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SaveTimetableRequest true "Save timetable payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/save [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	resp, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// List godoc
// @Summary List the persisted timetable of a semester
// @Tags Timetable
// @Produce json
// @Param semester query string true "Semester" Enums(Fall, Spring, Summer)
// @Param year query int true "Year"
// @Param instructorId query string false "Filter by instructor"
// @Param classroomId query string false "Filter by classroom"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable query"))
		return
	}
	schedules, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, &models.Pagination{Page: 1, PageSize: len(schedules), TotalCount: total})
}

// Export godoc
// @Summary Export the semester timetable as CSV
// @Tags Timetable
// @Produce text/csv
// @Param semester query string true "Semester" Enums(Fall, Spring, Summer)
// @Param year query int true "Year"
// @Success 200 {string} string "CSV payload"
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable query"))
		return
	}
	payload, err := h.service.ExportCSV(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=timetable.csv")
	c.Data(http.StatusOK, "text/csv", payload)
}

// SavePreferences godoc
// @Summary Replace an instructor's scheduling preferences
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Instructor id"
// @Param payload body dto.SavePreferenceRequest true "Preference payload"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/preferences [put]
func (h *TimetableHandler) SavePreferences(c *gin.Context) {
	var req dto.SavePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}
	pref, err := h.service.SavePreference(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref, nil)
}
