package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/dto"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/geo"
)

type attendanceStore interface {
	CreateSession(ctx context.Context, session *models.AttendanceSession) error
	FindSessionByID(ctx context.Context, id string) (*models.AttendanceSession, error)
	CreateRecord(ctx context.Context, record *models.AttendanceRecord) error
	FindRecordBySession(ctx context.Context, sessionID, studentID string) (*models.AttendanceRecord, error)
	LastRecordSince(ctx context.Context, studentID string, cutoff time.Time) (*models.AttendanceRecord, error)
	ListRecords(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
}

type scheduleReader interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
}

// AttendanceConfig carries the geofence and fraud-check thresholds.
type AttendanceConfig struct {
	CampusCIDRs           []string
	GPSToleranceMeters    float64
	RejectDistanceM       float64
	MaxTravelSpeedKmh     float64
	VelocityWindow        time.Duration
	DefaultRadiusM        float64
	DefaultSessionMinutes int
}

// AttendanceService opens geofenced check-in sessions and records student
// check-ins after running location fraud checks.
type AttendanceService struct {
	records   attendanceStore
	schedules scheduleReader
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AttendanceConfig
	campus    []*net.IPNet
}

// NewAttendanceService wires attendance dependencies. Unparseable campus
// CIDRs are dropped with a warning rather than failing startup.
func NewAttendanceService(records attendanceStore, schedules scheduleReader, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg AttendanceConfig) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.GPSToleranceMeters <= 0 {
		cfg.GPSToleranceMeters = 20
	}
	if cfg.RejectDistanceM <= 0 {
		cfg.RejectDistanceM = 500
	}
	if cfg.MaxTravelSpeedKmh <= 0 {
		cfg.MaxTravelSpeedKmh = 120
	}
	if cfg.VelocityWindow <= 0 {
		cfg.VelocityWindow = 2 * time.Hour
	}
	if cfg.DefaultRadiusM <= 0 {
		cfg.DefaultRadiusM = 50
	}
	if cfg.DefaultSessionMinutes <= 0 {
		cfg.DefaultSessionMinutes = 15
	}

	var campus []*net.IPNet
	for _, cidr := range cfg.CampusCIDRs {
		_, network, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			logger.Warn("skipping invalid campus CIDR", zap.String("cidr", cidr), zap.Error(err))
			continue
		}
		campus = append(campus, network)
	}

	return &AttendanceService{
		records:   records,
		schedules: schedules,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		campus:    campus,
	}
}

// OpenSession opens a check-in window anchored at the instructor's position.
func (s *AttendanceService) OpenSession(ctx context.Context, req dto.OpenSessionRequest) (*models.AttendanceSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid open session payload")
	}
	if _, err := s.schedules.FindByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	radius := req.RadiusM
	if radius <= 0 {
		radius = s.cfg.DefaultRadiusM
	}
	duration := time.Duration(req.DurationM) * time.Minute
	if duration <= 0 {
		duration = time.Duration(s.cfg.DefaultSessionMinutes) * time.Minute
	}

	now := time.Now().UTC()
	session := &models.AttendanceSession{
		ScheduleID: req.ScheduleID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		RadiusM:    radius,
		OpensAt:    now,
		ClosesAt:   now.Add(duration),
	}
	if err := s.records.CreateSession(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open attendance session")
	}
	return session, nil
}

// CheckIn records a student check-in. Positions far beyond the geofence are
// rejected without writing a record; weaker signals (outside the radius, an
// off-campus network, implied travel speed above the limit) still record the
// check-in but flag it for review.
func (s *AttendanceService) CheckIn(ctx context.Context, clientIP string, req dto.CheckInRequest) (*dto.CheckInResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid check-in payload")
	}
	studentID := req.StudentID

	session, err := s.records.FindSessionByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "attendance session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance session")
	}

	now := time.Now().UTC()
	if now.Before(session.OpensAt) || now.After(session.ClosesAt) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "attendance session is not open")
	}

	existing, err := s.records.FindRecordBySession(ctx, req.SessionID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check prior attendance")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already checked in for this session")
	}

	distance := geo.DistanceMeters(session.Latitude, session.Longitude, req.Latitude, req.Longitude)
	if distance > s.cfg.RejectDistanceM {
		s.recordCheckIn("rejected")
		return nil, appErrors.Clone(appErrors.ErrAttendanceRejected, fmt.Sprintf("reported position is %.0fm from the classroom", distance))
	}

	var flags []string
	if distance > session.RadiusM+s.cfg.GPSToleranceMeters {
		flags = append(flags, fmt.Sprintf("outside geofence by %.0fm", distance-session.RadiusM))
	}

	onCampus := s.isCampusIP(clientIP)
	if !onCampus {
		flags = append(flags, "off-campus network")
	}

	if speed, ok, speedErr := s.impliedTravelSpeed(ctx, studentID, req.Latitude, req.Longitude, now); speedErr != nil {
		return nil, speedErr
	} else if ok && speed > s.cfg.MaxTravelSpeedKmh {
		flags = append(flags, fmt.Sprintf("implied travel speed %.0f km/h", speed))
	}

	status := models.AttendanceStatusPresent
	var flagReason *string
	if len(flags) > 0 {
		status = models.AttendanceStatusFlagged
		reason := strings.Join(flags, "; ")
		flagReason = &reason
	}

	record := &models.AttendanceRecord{
		SessionID:  req.SessionID,
		StudentID:  studentID,
		Status:     status,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		DistanceM:  distance,
		IPAddress:  clientIP,
		OnCampusIP: onCampus,
		FlagReason: flagReason,
		CheckedAt:  now,
	}
	if err := s.records.CreateRecord(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record check-in")
	}

	s.recordCheckIn(strings.ToLower(string(status)))
	if status == models.AttendanceStatusFlagged {
		s.logger.Warn("attendance check-in flagged",
			zap.String("session_id", req.SessionID),
			zap.String("student_id", studentID),
			zap.Strings("flags", flags),
		)
	}

	resp := &dto.CheckInResponse{
		RecordID:   record.ID,
		Status:     string(status),
		DistanceM:  distance,
		OnCampusIP: onCampus,
	}
	if flagReason != nil {
		resp.FlagReason = *flagReason
	}
	return resp, nil
}

// SessionRecords lists the check-in records of one session, optionally
// narrowed to a status or a student.
func (s *AttendanceService) SessionRecords(ctx context.Context, sessionID string, query dto.SessionRecordsQuery) ([]models.AttendanceRecord, int, error) {
	if _, err := s.records.FindSessionByID(ctx, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, appErrors.Clone(appErrors.ErrNotFound, "attendance session not found")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance session")
	}

	filter := models.AttendanceFilter{
		SessionID: sessionID,
		StudentID: query.StudentID,
		Page:      query.Page,
		PageSize:  query.PageSize,
	}
	if query.Status != "" {
		status := models.AttendanceStatus(strings.ToUpper(query.Status))
		if !status.Valid() {
			return nil, 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown attendance status %q", query.Status))
		}
		filter.Status = &status
	}

	records, total, err := s.records.ListRecords(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
	}
	return records, total, nil
}

// impliedTravelSpeed compares the incoming position against the student's
// most recent check-in inside the velocity window.
func (s *AttendanceService) impliedTravelSpeed(ctx context.Context, studentID string, lat, lon float64, now time.Time) (float64, bool, error) {
	last, err := s.records.LastRecordSince(ctx, studentID, now.Add(-s.cfg.VelocityWindow))
	if err != nil {
		return 0, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent check-ins")
	}
	if last == nil {
		return 0, false, nil
	}
	distance := geo.DistanceMeters(last.Latitude, last.Longitude, lat, lon)
	elapsed := now.Sub(last.CheckedAt).Seconds()
	return geo.SpeedKmh(distance, elapsed), true, nil
}

func (s *AttendanceService) isCampusIP(clientIP string) bool {
	ip := net.ParseIP(strings.TrimSpace(clientIP))
	if ip == nil {
		return false
	}
	for _, network := range s.campus {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func (s *AttendanceService) recordCheckIn(status string) {
	if s.metrics != nil {
		s.metrics.RecordAttendanceCheckIn(status)
	}
}
