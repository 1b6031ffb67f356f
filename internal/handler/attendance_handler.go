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

type attendanceTaker interface {
	OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*models.AttendanceSession, error)
	CheckIn(ctx context.Context, clientIP string, req dto.CheckInRequest) (*dto.CheckInResponse, error)
	SessionRecords(ctx context.Context, sessionID string, query dto.SessionRecordsQuery) ([]models.AttendanceRecord, int, error)
}

// AttendanceHandler exposes attendance session and check-in endpoints.
type AttendanceHandler struct {
	service attendanceTaker
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// OpenSession godoc
// @Summary Open a geofenced attendance session for a scheduled meeting
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.OpenSessionRequest true "Open session payload"
// @Success 201 {object} response.Envelope
// @Router /attendance/sessions [post]
func (h *AttendanceHandler) OpenSession(c *gin.Context) {
	var req dto.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid open session payload"))
		return
	}
	session, err := h.service.OpenSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// CheckIn godoc
// @Summary Record a student check-in with location evidence
// @Description Runs geofence, network and travel-speed checks. Positions far outside the geofence are rejected; weaker anomalies record the check-in flagged for review.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CheckInRequest true "Check-in payload"
// @Success 201 {object} response.Envelope
// @Router /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check-in payload"))
		return
	}
	resp, err := h.service.CheckIn(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Records godoc
// @Summary List the check-in records of a session
// @Tags Attendance
// @Produce json
// @Param id path string true "Session id"
// @Param status query string false "Filter by status" Enums(PRESENT, LATE, ABSENT, FLAGGED)
// @Param studentId query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /attendance/sessions/{id}/records [get]
func (h *AttendanceHandler) Records(c *gin.Context) {
	var query dto.SessionRecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session records query"))
		return
	}
	records, total, err := h.service.SessionRecords(c.Request.Context(), c.Param("id"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, &models.Pagination{Page: 1, PageSize: len(records), TotalCount: total})
}
