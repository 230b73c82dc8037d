package models

import (
	"time"

	"github.com/lib/pq"
)

// Club is a read-mostly campus organisation profile.
type Club struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Description   string         `db:"description" json:"description"`
	Members       int            `db:"members" json:"members"`
	OpenPositions int            `db:"open_positions" json:"open_positions"`
	Established   string         `db:"established" json:"established"`
	Tags          pq.StringArray `db:"tags" json:"tags"`
	Image         string         `db:"image" json:"image,omitempty"`
	Banner        string         `db:"banner" json:"banner,omitempty"`
	Mission       string         `db:"mission" json:"mission,omitempty"`
	Vision        string         `db:"vision" json:"vision,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// ClubActivitySummary is a per-club event tally split by the canonical
// technical/non-technical partition.
type ClubActivitySummary struct {
	ClubName     string `json:"club_name"`
	Total        int    `json:"total"`
	Technical    int    `json:"technical"`
	NonTechnical int    `json:"non_technical"`
}
