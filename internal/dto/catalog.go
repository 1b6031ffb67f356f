package dto

// SectionQuery filters the course section catalog.
type SectionQuery struct {
	CourseID     string `form:"courseId"`
	InstructorID string `form:"instructorId"`
	Semester     string `form:"semester" validate:"omitempty,oneof=Fall Spring Summer"`
	Year         int    `form:"year" validate:"omitempty,min=2000,max=2100"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
	SortBy       string `form:"sortBy"`
	SortOrder    string `form:"sortOrder"`
}

// ClassroomQuery filters the classroom catalog.
type ClassroomQuery struct {
	Building    string `form:"building"`
	MinCapacity int    `form:"minCapacity"`
	Feature     string `form:"feature"`
	Active      *bool  `form:"active"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
	SortBy      string `form:"sortBy"`
	SortOrder   string `form:"sortOrder"`
}

// StudentQuery filters the student directory.
type StudentQuery struct {
	Search       string `form:"search"`
	DepartmentID string `form:"departmentId"`
	Year         int    `form:"year"`
	Active       *bool  `form:"active"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
	SortBy       string `form:"sortBy"`
	SortOrder    string `form:"sortOrder"`
}
