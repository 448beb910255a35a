package stores

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kirinyoku/queuego/internal/domain"
)

const (
	maxNameLength = 200

	defaultOpenTime           = "10:00"
	defaultCloseTime          = "20:00"
	defaultServiceTimeMinutes = 5
)

// CreateInput describes a new store. Nil pointers take the defaults.
type CreateInput struct {
	Name        string
	Category    domain.Category
	Description string
	Address     string
	City        string
	State       string
	ZipCode     string
	Latitude    string
	Longitude   string
	Phone       string
	Email       string
	ImageURL    string

	OpenTime                  *string
	CloseTime                 *string
	Deposit                   *int64
	DefaultServiceTimeMinutes *int
	IsOpen                    *bool
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name        *string
	Category    *domain.Category
	Description *string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Latitude    *string
	Longitude   *string
	Phone       *string
	Email       *string
	ImageURL    *string

	OpenTime                  *string
	CloseTime                 *string
	Deposit                   *int64
	DefaultServiceTimeMinutes *int
}

func (in CreateInput) toStore(ownerID int64, now time.Time) domain.Store {
	s := domain.Store{
		OwnerID:                   ownerID,
		Name:                      strings.TrimSpace(in.Name),
		Category:                  in.Category,
		Description:               in.Description,
		Address:                   strings.TrimSpace(in.Address),
		City:                      in.City,
		State:                     in.State,
		ZipCode:                   in.ZipCode,
		Latitude:                  in.Latitude,
		Longitude:                 in.Longitude,
		Phone:                     in.Phone,
		Email:                     in.Email,
		ImageURL:                  in.ImageURL,
		OpenTime:                  defaultOpenTime,
		CloseTime:                 defaultCloseTime,
		DefaultServiceTimeMinutes: defaultServiceTimeMinutes,
		IsOpen:                    true,
		IsActive:                  true,
		Rating:                    "0",
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if in.OpenTime != nil {
		s.OpenTime = *in.OpenTime
	}
	if in.CloseTime != nil {
		s.CloseTime = *in.CloseTime
	}
	if in.Deposit != nil {
		s.Deposit = *in.Deposit
	}
	if in.DefaultServiceTimeMinutes != nil {
		s.DefaultServiceTimeMinutes = *in.DefaultServiceTimeMinutes
	}
	if in.IsOpen != nil {
		s.IsOpen = *in.IsOpen
	}

	return s
}

func (p Patch) apply(s *domain.Store) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}

	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Address != nil {
		s.Address = strings.TrimSpace(*p.Address)
	}
	setString(&s.Description, p.Description)
	setString(&s.City, p.City)
	setString(&s.State, p.State)
	setString(&s.ZipCode, p.ZipCode)
	setString(&s.Latitude, p.Latitude)
	setString(&s.Longitude, p.Longitude)
	setString(&s.Phone, p.Phone)
	setString(&s.Email, p.Email)
	setString(&s.ImageURL, p.ImageURL)
	setString(&s.OpenTime, p.OpenTime)
	setString(&s.CloseTime, p.CloseTime)

	if p.Deposit != nil {
		s.Deposit = *p.Deposit
	}
	if p.DefaultServiceTimeMinutes != nil {
		s.DefaultServiceTimeMinutes = *p.DefaultServiceTimeMinutes
	}
}

// validate checks a store after defaults or a patch have been applied.
func validate(s *domain.Store) error {
	if s.Name == "" {
		return invalid("name", "must not be empty")
	}
	if utf8.RuneCountInString(s.Name) > maxNameLength {
		return invalid("name", "must be at most 200 characters")
	}
	if !s.Category.Valid() {
		return invalid("category", "must be one of Doctor, Saloon, Car Wash")
	}
	if s.Address == "" {
		return invalid("address", "must not be empty")
	}
	if !validClock(s.OpenTime) {
		return invalid("open_time", "must be HH:MM")
	}
	if !validClock(s.CloseTime) {
		return invalid("close_time", "must be HH:MM")
	}
	if s.Deposit < 0 {
		return invalid("deposit", "must not be negative")
	}
	if s.DefaultServiceTimeMinutes < 1 {
		return invalid("default_service_time_minutes", "must be at least 1")
	}
	return nil
}

func validClock(v string) bool {
	if len(v) != len("15:04") {
		return false
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}
