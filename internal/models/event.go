package models

import "time"

// EventCategory classifies what kind of activity an event is.
type EventCategory string

const (
	CategoryWorkshop   EventCategory = "Workshop"
	CategoryHackathon  EventCategory = "Hackathon"
	CategorySeminar    EventCategory = "Seminar"
	CategoryCultural   EventCategory = "Cultural"
	CategorySports     EventCategory = "Sports"
	CategoryNetworking EventCategory = "Networking"
)

// EventScope distinguishes campus-hosted events from external ones.
type EventScope string

const (
	ScopeInternal EventScope = "Internal"
	ScopeExternal EventScope = "External"
)

// CreditType is the credit group an event counts toward.
type CreditType string

const (
	CreditGroup2 CreditType = "Group2"
	CreditGroup3 CreditType = "Group3"
	CreditEE     CreditType = "EE"
	CreditNone   CreditType = "None"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusUpcoming  EventStatus = "Upcoming"
	StatusOngoing   EventStatus = "Ongoing"
	StatusCompleted EventStatus = "Completed"
	StatusCancelled EventStatus = "Cancelled"
)

// Event is a campus activity open for discovery and registration. Times are
// local wall-clock strings ("15:04") as entered by the organizer; dates are
// calendar days.
type Event struct {
	ID               string        `db:"id" json:"id"`
	Title            string        `db:"title" json:"title"`
	Subtitle         string        `db:"subtitle" json:"subtitle,omitempty"`
	Description      string        `db:"description" json:"description,omitempty"`
	Location         string        `db:"location" json:"location,omitempty"`
	Organizer        string        `db:"organizer" json:"organizer"`
	Image            string        `db:"image" json:"image,omitempty"`
	StartDate        time.Time     `db:"start_date" json:"start_date"`
	EndDate          time.Time     `db:"end_date" json:"end_date"`
	StartTime        string        `db:"start_time" json:"start_time,omitempty"`
	EndTime          string        `db:"end_time" json:"end_time,omitempty"`
	Category         EventCategory `db:"category" json:"category"`
	Scope            EventScope    `db:"scope" json:"scope"`
	CreditType       CreditType    `db:"credit_type" json:"credit_type"`
	Status           EventStatus   `db:"status" json:"status"`
	RegistrationFees string        `db:"registration_fees" json:"registration_fees"`
	RegistrationURL  string        `db:"registration_url" json:"registration_url,omitempty"`
	MaxCapacity      int           `db:"max_capacity" json:"max_capacity"`
	Registered       int           `db:"registered" json:"registered"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// SeatsRemaining is always derived; it is never stored.
func (e Event) SeatsRemaining() int {
	remaining := e.MaxCapacity - e.Registered
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EventView is an Event as presented to a particular viewer: seat counts are
// computed on read and the registration flag is scoped to the viewing student.
type EventView struct {
	Event
	SeatsRemaining int  `json:"seats_remaining"`
	IsRegistered   bool `json:"is_registered"`
	CanRegister    bool `json:"can_register"`
}

// NewEventView derives the read-model for one viewer.
func NewEventView(e Event, isRegistered, authenticated bool) EventView {
	canRegister := e.Status == StatusUpcoming && e.SeatsRemaining() > 0 && !isRegistered
	if !authenticated {
		// Unauthenticated visitors may only follow External registrations.
		canRegister = canRegister && e.Scope == ScopeExternal
	}
	return EventView{
		Event:          e,
		SeatsRemaining: e.SeatsRemaining(),
		IsRegistered:   isRegistered,
		CanRegister:    canRegister,
	}
}

// PublishEventRequest is the organizer's payload for publishing an event.
// Capacity and fees fall back to configured defaults when omitted.
type PublishEventRequest struct {
	Title            string `json:"title" validate:"required"`
	Subtitle         string `json:"subtitle"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	Organizer        string `json:"organizer" validate:"required"`
	Image            string `json:"image"`
	StartDate        string `json:"start_date" validate:"required"`
	EndDate          string `json:"end_date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Category         string `json:"category" validate:"required,oneof=Workshop Hackathon Seminar Cultural Sports Networking"`
	Scope            string `json:"scope" validate:"required,oneof=Internal External"`
	CreditType       string `json:"credit_type" validate:"omitempty,oneof=Group2 Group3 EE None"`
	RegistrationFees string `json:"registration_fees"`
	RegistrationURL  string `json:"registration_url"`
	MaxCapacity      int    `json:"max_capacity" validate:"omitempty,min=1"`
}

// EventRegistration records one student's registration for an event.
type EventRegistration struct {
	ID        string    `db:"id" json:"id"`
	EventID   string    `db:"event_id" json:"event_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
