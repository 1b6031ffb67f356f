package models

import (
	"time"

	"github.com/lib/pq"
)

// Classroom represents a bookable teaching room.
type Classroom struct {
	ID        string         `db:"id" json:"id"`
	Building  string         `db:"building" json:"building"`
	RoomCode  string         `db:"room_code" json:"room_code"`
	Capacity  int            `db:"capacity" json:"capacity"`
	Features  pq.StringArray `db:"features" json:"features"`
	Active    bool           `db:"active" json:"active"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ClassroomFilter describes query params for listing classrooms.
type ClassroomFilter struct {
	Building    string
	MinCapacity int
	Feature     string
	Active      *bool
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
