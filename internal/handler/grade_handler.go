package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/dto"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/service"
	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/response"
)

type gradeRecorder interface {
	RecordGrade(ctx context.Context, req dto.RecordGradeRequest) (*dto.RecordGradeResponse, error)
	RecomputeGPA(ctx context.Context, studentID string) (*dto.GPAResponse, error)
}

// GradeHandler exposes grade entry and GPA endpoints.
type GradeHandler struct {
	service gradeRecorder
}

// NewGradeHandler constructs the handler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// Record godoc
// @Summary Record a letter grade for an enrollment
// @Description Stores the grade and queues an asynchronous GPA recomputation for the student.
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body dto.RecordGradeRequest true "Grade payload"
// @Success 202 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Record(c *gin.Context) {
	var req dto.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	resp, err := h.service.RecordGrade(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, resp, nil)
}

// RecomputeGPA godoc
// @Summary Recompute a student's cumulative GPA synchronously
// @Tags Grades
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/gpa/recompute [post]
func (h *GradeHandler) RecomputeGPA(c *gin.Context) {
	studentID := c.Param("id")
	if studentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id is required"))
		return
	}
	resp, err := h.service.RecomputeGPA(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
