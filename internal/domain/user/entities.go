package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already registered")
)

type Status string

const (
	StatusStudent Status = "STUDENT"
	StatusAdmin   Status = "ADMIN"
)

func (s Status) Valid() bool { return s == StatusStudent || s == StatusAdmin }

// Document is the KYC bundle attached to a student.
type Document struct {
	FullName             string    `json:"full_name"`
	NIM                  string    `json:"nim"`
	University           string    `json:"university"`
	Faculty              string    `json:"faculty"`
	Major                string    `json:"major"`
	Semester             string    `json:"semester"`
	ExpectedGraduate     string    `json:"expected_graduate"`
	KTMURL               string    `json:"ktm_url"`
	StudentActiveInfoURL string    `json:"student_active_info_url"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	Email        string    `gorm:"column:email;size:191;not null;uniqueIndex:ux_users_email" json:"email"`
	FullName     string    `gorm:"column:full_name;size:191" json:"full_name"`
	Phone        string    `gorm:"column:no_telp;size:32" json:"no_telp"`
	PasswordHash string    `gorm:"column:password;size:100;not null" json:"-"`
	Status       Status    `gorm:"column:status;size:16;not null;default:STUDENT" json:"status"`
	Document     *Document `gorm:"column:document;type:text;serializer:json" json:"document,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
