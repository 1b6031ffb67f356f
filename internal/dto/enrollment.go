package dto

// StudentSectionsQuery scopes a student's active section listing to one
// semester.
type StudentSectionsQuery struct {
	Semester string `form:"semester" validate:"required,oneof=Fall Spring Summer"`
	Year     int    `form:"year" validate:"required,min=2000,max=2100"`
}

// StudentSectionsResponse lists the sections a student is actively enrolled
// in.
type StudentSectionsResponse struct {
	StudentID  string   `json:"studentId"`
	Semester   string   `json:"semester"`
	Year       int      `json:"year"`
	SectionIDs []string `json:"sectionIds"`
}
