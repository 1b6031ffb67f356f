package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Management API",
        "description": "Timetable generation, attendance and grade services for the campus backend.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Automated timetable generation and persistence"},
        {"name": "Catalog", "description": "Section, classroom and student browsing"},
        {"name": "Attendance", "description": "Geofenced attendance sessions and check-ins"},
        {"name": "Enrollments", "description": "Enrollment drop and roster lookups"},
        {"name": "Grades", "description": "Grade entry and GPA recomputation"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate a timetable proposal for a semester",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "No sections or classrooms to schedule"},
                    "504": {"description": "Generation exceeded its deadline"}
                }
            }
        },
        "/timetable/save": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Persist a generated timetable proposal",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Proposal expired or already saved"}
                }
            }
        },
        "/timetable": {
            "get": {
                "tags": ["Timetable"],
                "summary": "List the persisted timetable of a semester",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string", "required": true},
                    {"name": "year", "in": "query", "type": "integer", "required": true},
                    {"name": "instructorId", "in": "query", "type": "string"},
                    {"name": "classroomId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Export the semester timetable as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string", "required": true},
                    {"name": "year", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "CSV payload"}
                }
            }
        },
        "/instructors/{id}/preferences": {
            "put": {
                "tags": ["Timetable"],
                "summary": "Replace an instructor's scheduling preferences",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SavePreferenceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown day or malformed time"}
                }
            }
        },
        "/sections": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List course sections",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "courseId", "in": "query", "type": "string"},
                    {"name": "instructorId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sections/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get one course section",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Section not found"}
                }
            }
        },
        "/sections/{id}/schedule": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the persisted meetings of one section",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Section not found"}
                }
            }
        },
        "/classrooms": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List classrooms",
                "parameters": [
                    {"name": "building", "in": "query", "type": "string"},
                    {"name": "minCapacity", "in": "query", "type": "integer"},
                    {"name": "feature", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classrooms/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get one classroom",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Classroom not found"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "departmentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get one student",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not found"}
                }
            }
        },
        "/students/{id}/sections": {
            "get": {
                "tags": ["Enrollments"],
                "summary": "List the sections a student is actively enrolled in",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "semester", "in": "query", "type": "string", "required": true},
                    {"name": "year", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/{id}/drop": {
            "post": {
                "tags": ["Enrollments"],
                "summary": "Drop an active enrollment",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Active enrollment not found"}
                }
            }
        },
        "/attendance/sessions": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Open a geofenced attendance session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Schedule not found"}
                }
            }
        },
        "/attendance/check-in": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record a student check-in with location evidence",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckInRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already checked in"},
                    "412": {"description": "Session not open"},
                    "422": {"description": "Position rejected"}
                }
            }
        },
        "/attendance/sessions/{id}/records": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List the check-in records of a session",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "status", "in": "query", "type": "string", "enum": ["PRESENT", "LATE", "ABSENT", "FLAGGED"]},
                    {"name": "studentId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Session not found"}
                }
            }
        },
        "/grades": {
            "post": {
                "tags": ["Grades"],
                "summary": "Record a letter grade for an enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordGradeRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Enrollment not found"}
                }
            }
        },
        "/students/{id}/gpa/recompute": {
            "post": {
                "tags": ["Grades"],
                "summary": "Recompute a student's cumulative GPA synchronously",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["semester", "year"],
            "properties": {
                "semester": {"type": "string", "enum": ["Fall", "Spring", "Summer"]},
                "year": {"type": "integer"},
                "clearExisting": {"type": "boolean"}
            }
        },
        "SaveTimetableRequest": {
            "type": "object",
            "required": ["proposalId"],
            "properties": {
                "proposalId": {"type": "string"}
            }
        },
        "OpenSessionRequest": {
            "type": "object",
            "required": ["scheduleId", "latitude", "longitude"],
            "properties": {
                "scheduleId": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "radiusM": {"type": "number"},
                "durationMinutes": {"type": "integer"}
            }
        },
        "CheckInRequest": {
            "type": "object",
            "required": ["sessionId", "studentId", "latitude", "longitude"],
            "properties": {
                "sessionId": {"type": "string"},
                "studentId": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"}
            }
        },
        "SavePreferenceRequest": {
            "type": "object",
            "properties": {
                "preferredDays": {"type": "array", "items": {"type": "string"}},
                "preferredTimes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RecordGradeRequest": {
            "type": "object",
            "required": ["enrollmentId", "grade"],
            "properties": {
                "enrollmentId": {"type": "string"},
                "grade": {"type": "string", "enum": ["AA", "BA", "BB", "CB", "CC", "DC", "DD", "FF"]}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
