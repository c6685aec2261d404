package entities

import (
	"approval-system/pkg/types"
)

type User struct {
	ID           uint64 `json:"id" db:"id"`
	Fio          string `json:"fio" db:"fio"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Active       bool   `json:"active" db:"active"`

	types.BaseEntity
}

type Role struct {
	ID   uint64 `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}
