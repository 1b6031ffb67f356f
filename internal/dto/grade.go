package dto

// RecordGradeRequest stores a letter grade for an enrollment and queues a
// GPA recomputation for the student.
type RecordGradeRequest struct {
	EnrollmentID string `json:"enrollmentId" validate:"required,uuid"`
	Grade        string `json:"grade" validate:"required,oneof=AA BA BB CB CC DC DD FF"`
}

// RecordGradeResponse acknowledges the write and the queued recomputation.
type RecordGradeResponse struct {
	EnrollmentID string  `json:"enrollmentId"`
	Grade        string  `json:"grade"`
	GradePoint   float64 `json:"gradePoint"`
	JobID        string  `json:"jobId"`
}

// GPAResponse reports a student's recomputed cumulative GPA.
type GPAResponse struct {
	StudentID string  `json:"studentId"`
	GPA       float64 `json:"gpa"`
	Credits   int     `json:"credits"`
}
