package httpgin

import (
	"github.com/kirinyoku/queuego/internal/domain"
	"github.com/kirinyoku/queuego/internal/service/stores"
)

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type CreateStoreRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ImageURL    string `json:"image_url"`

	OpenTime                  *string `json:"open_time"`
	CloseTime                 *string `json:"close_time"`
	Deposit                   *int64  `json:"deposit"`
	DefaultServiceTimeMinutes *int    `json:"default_service_time_minutes"`
	IsOpen                    *bool   `json:"is_open"`
}

func (r CreateStoreRequest) input() stores.CreateInput {
	return stores.CreateInput{
		Name:                      r.Name,
		Category:                  domain.Category(r.Category),
		Description:               r.Description,
		Address:                   r.Address,
		City:                      r.City,
		State:                     r.State,
		ZipCode:                   r.ZipCode,
		Latitude:                  r.Latitude,
		Longitude:                 r.Longitude,
		Phone:                     r.Phone,
		Email:                     r.Email,
		ImageURL:                  r.ImageURL,
		OpenTime:                  r.OpenTime,
		CloseTime:                 r.CloseTime,
		Deposit:                   r.Deposit,
		DefaultServiceTimeMinutes: r.DefaultServiceTimeMinutes,
		IsOpen:                    r.IsOpen,
	}
}

type UpdateStoreRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zip_code"`
	Latitude    *string `json:"latitude"`
	Longitude   *string `json:"longitude"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	ImageURL    *string `json:"image_url"`

	OpenTime                  *string `json:"open_time"`
	CloseTime                 *string `json:"close_time"`
	Deposit                   *int64  `json:"deposit"`
	DefaultServiceTimeMinutes *int    `json:"default_service_time_minutes"`
}

func (r UpdateStoreRequest) patch() stores.Patch {
	p := stores.Patch{
		Name:                      r.Name,
		Description:               r.Description,
		Address:                   r.Address,
		City:                      r.City,
		State:                     r.State,
		ZipCode:                   r.ZipCode,
		Latitude:                  r.Latitude,
		Longitude:                 r.Longitude,
		Phone:                     r.Phone,
		Email:                     r.Email,
		ImageURL:                  r.ImageURL,
		OpenTime:                  r.OpenTime,
		CloseTime:                 r.CloseTime,
		Deposit:                   r.Deposit,
		DefaultServiceTimeMinutes: r.DefaultServiceTimeMinutes,
	}
	if r.Category != nil {
		c := domain.Category(*r.Category)
		p.Category = &c
	}
	return p
}

type SetStatusRequest struct {
	IsOpen *bool `json:"is_open" binding:"required"`
}

type SetStatusResponse struct {
	StoreID int64 `json:"store_id"`
	IsOpen  bool  `json:"is_open"`
}

type AddServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price"`
}
