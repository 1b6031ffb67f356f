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

type enrollmentManager interface {
	Drop(ctx context.Context, enrollmentID string) error
	StudentSections(ctx context.Context, studentID string, query dto.StudentSectionsQuery) (*dto.StudentSectionsResponse, error)
}

// EnrollmentHandler exposes enrollment drop and roster lookups.
type EnrollmentHandler struct {
	service enrollmentManager
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// Drop godoc
// @Summary Drop an active enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment id"
// @Success 204 "No Content"
// @Router /enrollments/{id}/drop [post]
func (h *EnrollmentHandler) Drop(c *gin.Context) {
	if err := h.service.Drop(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// StudentSections godoc
// @Summary List the sections a student is actively enrolled in
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student id"
// @Param semester query string true "Semester" Enums(Fall, Spring, Summer)
// @Param year query int true "Year"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/sections [get]
func (h *EnrollmentHandler) StudentSections(c *gin.Context) {
	var query dto.StudentSectionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student sections query"))
		return
	}
	resp, err := h.service.StudentSections(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
