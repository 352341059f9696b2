package models

import "time"

type Settings struct {
	UserID          string    `json:"user_id"`
	DefaultMode     Mode      `json:"default_mode"`
	DefaultCurrency string    `json:"default_currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UpdateSettingsRequest struct {
	DefaultMode     *Mode   `json:"default_mode"`
	DefaultCurrency *string `json:"default_currency"`
}
