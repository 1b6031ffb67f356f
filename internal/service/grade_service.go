package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/dto"
	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
	"github.com/ridvansevik/campus-management-system-backend-part3/pkg/jobs"
)

// gradePoints maps letter grades to their numeric points.
var gradePoints = map[string]float64{
	"AA": 4.0,
	"BA": 3.5,
	"BB": 3.0,
	"CB": 2.5,
	"CC": 2.0,
	"DC": 1.5,
	"DD": 1.0,
	"FF": 0.0,
}

type enrollmentGrader interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	UpdateGrade(ctx context.Context, id, grade string, gradePoint float64) error
	ListCompletedCourses(ctx context.Context, studentID string) ([]models.CompletedCourse, error)
}

type gpaWriter interface {
	UpdateGPA(ctx context.Context, id string, gpa float64) error
}

// GradeService records letter grades and recomputes student GPAs on a
// background queue so grade entry stays fast.
type GradeService struct {
	enrollments enrollmentGrader
	students    gpaWriter
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	queue       *jobs.Queue
}

// GradeConfig tunes the recomputation workers.
type GradeConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
}

// NewGradeService wires grade dependencies and builds the recomputation
// queue. Call StartWorkers before accepting traffic and Stop on shutdown.
func NewGradeService(enrollments enrollmentGrader, students gpaWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg GradeConfig) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &GradeService{
		enrollments: enrollments,
		students:    students,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
	s.queue = jobs.NewQueue("gpa-recompute", s.handleRecompute, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// StartWorkers begins queue consumption.
func (s *GradeService) StartWorkers(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *GradeService) Stop() {
	s.queue.Stop()
}

// RecordGrade stores a letter grade on the enrollment and queues a GPA
// recomputation for the owning student.
func (s *GradeService) RecordGrade(ctx context.Context, req dto.RecordGradeRequest) (*dto.RecordGradeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	point, ok := gradePoints[req.Grade]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown letter grade %q", req.Grade))
	}

	enrollment, err := s.enrollments.FindByID(ctx, req.EnrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	if err := s.enrollments.UpdateGrade(ctx, req.EnrollmentID, req.Grade, point); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}

	jobID := uuid.NewString()
	if err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: "gpa_recompute", Payload: enrollment.StudentID}); err != nil {
		// The grade is stored; the GPA catches up on the next recompute.
		s.logger.Warn("failed to enqueue gpa recompute", zap.String("student_id", enrollment.StudentID), zap.Error(err))
	}

	return &dto.RecordGradeResponse{
		EnrollmentID: req.EnrollmentID,
		Grade:        req.Grade,
		GradePoint:   point,
		JobID:        jobID,
	}, nil
}

// RecomputeGPA rebuilds a student's cumulative GPA from their completed
// enrollments. Retakes count once, keeping the best grade point per course.
// The result is a credit-weighted mean rounded to two decimals.
func (s *GradeService) RecomputeGPA(ctx context.Context, studentID string) (*dto.GPAResponse, error) {
	courses, err := s.enrollments.ListCompletedCourses(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completed courses")
	}

	best := make(map[string]models.CompletedCourse, len(courses))
	order := make([]string, 0, len(courses))
	for _, course := range courses {
		current, seen := best[course.CourseID]
		if !seen {
			order = append(order, course.CourseID)
			best[course.CourseID] = course
			continue
		}
		if course.GradePoint > current.GradePoint {
			best[course.CourseID] = course
		}
	}

	totalCredits := 0
	weighted := 0.0
	for _, courseID := range order {
		course := best[courseID]
		totalCredits += course.Credits
		weighted += float64(course.Credits) * course.GradePoint
	}

	gpa := 0.0
	if totalCredits > 0 {
		gpa = math.Round(weighted/float64(totalCredits)*100) / 100
	}

	if err := s.students.UpdateGPA(ctx, studentID, gpa); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store gpa")
	}

	return &dto.GPAResponse{StudentID: studentID, GPA: gpa, Credits: totalCredits}, nil
}

func (s *GradeService) handleRecompute(ctx context.Context, job jobs.Job) error {
	studentID, ok := job.Payload.(string)
	if !ok {
		s.recordJob("invalid")
		return fmt.Errorf("gpa recompute job %s has non-string payload", job.ID)
	}
	if _, err := s.RecomputeGPA(ctx, studentID); err != nil {
		s.recordJob("error")
		return err
	}
	s.recordJob("success")
	return nil
}

func (s *GradeService) recordJob(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordGPAJob(outcome)
	}
}
