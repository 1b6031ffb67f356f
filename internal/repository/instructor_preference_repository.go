package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ridvansevik/campus-management-system-backend-part3/internal/models"
)

// InstructorPreferenceRepository provides persistence for instructor
// scheduling preferences.
type InstructorPreferenceRepository struct {
	db *sqlx.DB
}

// NewInstructorPreferenceRepository creates a new preference repository.
func NewInstructorPreferenceRepository(db *sqlx.DB) *InstructorPreferenceRepository {
	return &InstructorPreferenceRepository{db: db}
}

const preferenceColumns = "id, instructor_id, preferred_days, preferred_times, created_at, updated_at"

// ListAll returns every stored preference, one row per instructor.
func (r *InstructorPreferenceRepository) ListAll(ctx context.Context) ([]models.InstructorPreference, error) {
	query := fmt.Sprintf("SELECT %s FROM instructor_preferences ORDER BY instructor_id ASC", preferenceColumns)
	var prefs []models.InstructorPreference
	if err := r.db.SelectContext(ctx, &prefs, query); err != nil {
		return nil, fmt.Errorf("list instructor preferences: %w", err)
	}
	return prefs, nil
}

// Upsert stores or replaces the preference of one instructor.
func (r *InstructorPreferenceRepository) Upsert(ctx context.Context, pref *models.InstructorPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now

	const query = `INSERT INTO instructor_preferences (id, instructor_id, preferred_days, preferred_times, created_at, updated_at) VALUES (:id, :instructor_id, :preferred_days, :preferred_times, :created_at, :updated_at) ON CONFLICT (instructor_id) DO UPDATE SET preferred_days = EXCLUDED.preferred_days, preferred_times = EXCLUDED.preferred_times, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("upsert instructor preference: %w", err)
	}
	return nil
}
