package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/dto"
	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
)

type enrollmentRoster interface {
	Drop(ctx context.Context, id string, at time.Time) error
	ListActiveSectionsOfStudent(ctx context.Context, studentID, semester string, year int) ([]string, error)
}

// EnrollmentService covers the registrar operations around enrollments that
// sit outside grading: dropping a course and listing a student's active
// sections.
type EnrollmentService struct {
	enrollments enrollmentRoster
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService wires enrollment dependencies.
func NewEnrollmentService(enrollments enrollmentRoster, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, validator: validate, logger: logger}
}

// Drop marks an active enrollment as dropped. Dropping an enrollment that is
// already dropped or completed reports not-found rather than conflict, so
// clients cannot distinguish a missing id from a finished one.
func (s *EnrollmentService) Drop(ctx context.Context, enrollmentID string) error {
	if err := s.validator.Var(enrollmentID, "required,uuid"); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "enrollment id must be a uuid")
	}
	if err := s.enrollments.Drop(ctx, enrollmentID, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "active enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop enrollment")
	}
	s.logger.Info("enrollment dropped", zap.String("enrollment_id", enrollmentID))
	return nil
}

// StudentSections lists the section ids a student is actively enrolled in
// for the semester.
func (s *EnrollmentService) StudentSections(ctx context.Context, studentID string, query dto.StudentSectionsQuery) (*dto.StudentSectionsResponse, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student sections query")
	}
	ids, err := s.enrollments.ListActiveSectionsOfStudent(ctx, studentID, query.Semester, query.Year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student sections")
	}
	return &dto.StudentSectionsResponse{
		StudentID:  studentID,
		Semester:   query.Semester,
		Year:       query.Year,
		SectionIDs: ids,
	}, nil
}
