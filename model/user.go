// Package model defines the records held by the JSON-backed registries
package model

import "time"

type User struct {
	Username     string     `json:"username"`
	PasswordHash string     `json:"password_hash"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
