package models

import (
	"time"
)

// GuestEntry is one submission of the guest feedback form. Entries are
// written once and never updated.
type GuestEntry struct {
	ID          string    `db:"id" bson:"_id" json:"id"`
	CreatedAt   time.Time `db:"created_at" bson:"created_at" json:"createdAt"`
	Name        string    `db:"name" bson:"name" json:"name"`
	PhoneNumber string    `db:"phone_number" bson:"phone_number" json:"phoneNumber"`

	// Optional fields are nil when the guest left them empty
	Area     *string `db:"area" bson:"area,omitempty" json:"area"`
	Rating   *int    `db:"rating" bson:"rating,omitempty" json:"rating"`
	Tags     *string `db:"tags" bson:"tags,omitempty" json:"tags"`
	Feedback *string `db:"feedback" bson:"feedback,omitempty" json:"feedback"`
}

// EntryEvent is pushed to connected admin dashboards when a new entry is saved.
type EntryEvent struct {
	Type      string     `json:"type"`
	Entry     GuestEntry `json:"entry"`
	Timestamp time.Time  `json:"timestamp"`
}

const EntryEventCreated = "entry_created"
