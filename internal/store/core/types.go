package core

import "time"

// User es la cuenta de API de email con su estado de cuota diaria.
type User struct {
	ID              string    `json:"Id"`
	Username        string    `json:"Username"`
	Email           string    `json:"Email"`
	APIKey          string    `json:"ApiKey"`
	CreatedAt       time.Time `json:"CreatedAt"`
	LastResetDate   time.Time `json:"LastResetDate"`
	IsActive        bool      `json:"IsActive"`
	DailyEmailLimit int       `json:"DailyEmailLimit"`
	EmailsSentToday int       `json:"EmailsSentToday"`
}

// Defaults de cuota para cuentas nuevas.
const (
	DefaultDailyEmailLimit = 100
)
