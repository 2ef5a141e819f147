package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// DefaultMaxFreeIssues is the free-tier cap applied to new citizen accounts
const DefaultMaxFreeIssues = 3

var (
	ErrUserBlocked   = errors.New("user is blocked")
	ErrQuotaExceeded = errors.New("free issue limit reached")
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password,omitempty" json:"-"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Role          Role               `bson:"role" json:"role"`
	IsBlocked     bool               `bson:"isBlocked" json:"isBlocked"`
	IsPremium     bool               `bson:"isPremium" json:"isPremium"`
	TotalIssues   int                `bson:"totalIssues" json:"totalIssues"`
	MaxFreeIssues int                `bson:"maxFreeIssues" json:"maxFreeIssues"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// CanReport reports whether the user may submit a new issue. Blocked users
// are always refused; premium users bypass the free-tier quota.
func (u *User) CanReport() error {
	if u.IsBlocked {
		return ErrUserBlocked
	}
	if !u.IsPremium && u.TotalIssues >= u.MaxFreeIssues {
		return ErrQuotaExceeded
	}
	return nil
}

// ValidRole reports whether s is one of the three known roles
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleCitizen, RoleStaff, RoleAdmin:
		return true
	}
	return false
}
