package domain

import (
	"time"
)

type TicketStatus string

const (
	StatusWaiting   TicketStatus = "waiting"
	StatusCalled    TicketStatus = "called"
	StatusServing   TicketStatus = "serving"
	StatusCompleted TicketStatus = "completed"
	StatusCancelled TicketStatus = "cancelled"
	StatusNoShow    TicketStatus = "no_show"
)

// ActiveStatuses are the non-terminal statuses. A user holds at most one
// ticket in this set per store.
var ActiveStatuses = []TicketStatus{StatusWaiting, StatusCalled, StatusServing}

// TerminalStatuses are retained as history and never change again.
var TerminalStatuses = []TicketStatus{StatusCompleted, StatusCancelled, StatusNoShow}

func (s TicketStatus) Active() bool {
	switch s {
	case StatusWaiting, StatusCalled, StatusServing:
		return true
	}
	return false
}

func (s TicketStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Category string

const (
	CategoryDoctor  Category = "Doctor"
	CategorySaloon  Category = "Saloon"
	CategoryCarWash Category = "Car Wash"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryDoctor, CategorySaloon, CategoryCarWash:
		return true
	}
	return false
}

type Store struct {
	ID          int64    `json:"id"`
	OwnerID     int64    `json:"owner_id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`

	Address   string `json:"address"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zip_code,omitempty"`
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`

	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	// OpenTime and CloseTime are "HH:MM".
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`

	// Deposit is in the smallest currency unit.
	Deposit                   int64 `json:"deposit"`
	DefaultServiceTimeMinutes int   `json:"default_service_time_minutes"`
	IsOpen                    bool  `json:"is_open"`
	IsActive                  bool  `json:"is_active"`

	Rating       string `json:"rating"`
	TotalReviews int    `json:"total_reviews"`

	// LastTicketNumber is the per-store issuance counter.
	LastTicketNumber int `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AcceptingTickets reports whether the store can issue new tickets.
func (s *Store) AcceptingTickets() bool {
	return s.IsActive && s.IsOpen
}

// StoreSummary is the list projection of a store.
type StoreSummary struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Category     Category `json:"category"`
	Description  string   `json:"description,omitempty"`
	Address      string   `json:"address"`
	City         string   `json:"city,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Rating       string   `json:"rating"`
	TotalReviews int      `json:"total_reviews"`
	IsOpen       bool     `json:"is_open"`
	Deposit      int64    `json:"deposit"`
	Phone        string   `json:"phone,omitempty"`
	QueueCount   int      `json:"queue_count"`
}

type StoreFilter struct {
	Search   string
	Category Category
	IsOpen   *bool
	Limit    int
	Offset   int
}

type StoreService struct {
	ID          int64     `json:"id"`
	StoreID     int64     `json:"store_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StoreDetails is a store with its catalog and live queue figures.
type StoreDetails struct {
	Store
	Services          []StoreService `json:"services"`
	QueueCount        int            `json:"queue_count"`
	CurrentTicket     *int           `json:"current_ticket"`
	EstimatedWaitTime int            `json:"estimated_wait_time"`
}

type Ticket struct {
	ID           int64        `json:"id"`
	StoreID      int64        `json:"store_id"`
	UserID       int64        `json:"user_id"`
	TicketNumber int          `json:"ticket_number"`
	SecretCode   string       `json:"secret_code"`
	Status       TicketStatus `json:"status"`

	// Position is the queue position stamped at issuance. It is not kept
	// up to date; live ordering comes from ticket numbers.
	Position int `json:"position"`

	CreatedAt   time.Time  `json:"created_at"`
	CalledAt    *time.Time `json:"called_at,omitempty"`
	ServedAt    *time.Time `json:"served_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	DepositAmount   int64 `json:"deposit_amount"`
	DepositRefunded bool  `json:"deposit_refunded"`
}

type ServiceHistoryRecord struct {
	ID                 int64     `json:"id"`
	StoreID            int64     `json:"store_id"`
	TicketID           int64     `json:"ticket_id"`
	ServiceTimeMinutes int       `json:"service_time_minutes"`
	CompletedAt        time.Time `json:"completed_at"`
}

// TicketView is a ticket annotated with live queue figures.
type TicketView struct {
	Ticket            Ticket `json:"ticket"`
	Store             Store  `json:"store"`
	PeopleAhead       int    `json:"people_ahead"`
	CurrentlyServing  *int   `json:"currently_serving"`
	EstimatedWaitTime int    `json:"estimated_wait_time"`
}

type QueueSnapshot struct {
	StoreID        int64    `json:"store_id"`
	CurrentTicket  *int     `json:"current_ticket"`
	NextTicket     *int     `json:"next_ticket"`
	QueueLength    int      `json:"queue_length"`
	WaitingTickets []Ticket `json:"waiting_tickets"`
}
