package domain

import (
	"errors"
	"time"
)

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrDuplicateStudent = errors.New("student already exists")
)

// Student is a roster record managed by authenticated users.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Sex       string    `json:"sex"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Major     string    `json:"major"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
