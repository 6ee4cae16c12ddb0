package model

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type Provider string

const (
	ProviderSystem Provider = "system"
	ProviderGoogle Provider = "google"
)

var ErrMissingPasswordHash = errors.New("у пользователя с провайдером system должен быть хэш пароля")

type User struct {
	UUID                  string         `db:"uuid" json:"uuid"`
	FirstName             string         `db:"first_name" json:"first_name"`
	LastName              string         `db:"last_name" json:"last_name"`
	Email                 string         `db:"email" json:"email"`
	Role                  Role           `db:"role" json:"role"`
	Provider              Provider       `db:"provider" json:"provider"`
	PasswordHash          string         `db:"password_hash" json:"-"`
	Friends               pq.StringArray `db:"friends" json:"friends"`
	BlockedUsers          pq.StringArray `db:"blocked_users" json:"-"`
	ChangeCredentialsTime *time.Time     `db:"change_credentials_time" json:"-"`
	ConfirmEmailOTP       *string        `db:"confirm_email_otp" json:"-"`
	ConfirmedAt           *time.Time     `db:"confirmed_at" json:"confirmed_at,omitempty"`
	ResetPasswordOTP      *string        `db:"reset_password_otp" json:"-"`
	OTPExpiresAt          *time.Time     `db:"otp_expires_at" json:"-"`
	Avatar                *string        `db:"avatar" json:"avatar,omitempty"`
	FreezedAt             *time.Time     `db:"freezed_at" json:"freezed_at,omitempty"`
	FreezedBy             *string        `db:"freezed_by" json:"freezed_by,omitempty"`
	FreezeReason          *string        `db:"freeze_reason" json:"freeze_reason,omitempty"`
	RestoredAt            *time.Time     `db:"restored_at" json:"restored_at,omitempty"`
	RestoredBy            *string        `db:"restored_by" json:"restored_by,omitempty"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at" json:"updated_at"`
}

// Validate : system-пользователь всегда хранит хэш пароля
func (u *User) Validate() error {
	if u.Provider == ProviderSystem && u.PasswordHash == "" {
		return ErrMissingPasswordHash
	}
	if !u.Role.Valid() {
		return errors.New("неизвестная роль пользователя")
	}
	return nil
}

func (u *User) IsFrozen() bool {
	return u.FreezedAt != nil
}

// IsSelfFrozen : заморожен самим пользователем, такой аккаунт он может разморозить сам
func (u *User) IsSelfFrozen() bool {
	return u.IsFrozen() && u.FreezedBy != nil && *u.FreezedBy == u.UUID
}

// IsFriend : true, если id входит в список друзей
func (u *User) IsFriend(id string) bool {
	return contains(u.Friends, id)
}

// HasBlocked : true, если пользователь заблокировал id
func (u *User) HasBlocked(id string) bool {
	return contains(u.BlockedUsers, id)
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
