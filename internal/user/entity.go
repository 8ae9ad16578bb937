// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleGuide = "guide"
	RoleAdmin = "admin"
)

// User is an account document. The password hash and the active flag
// never serialize to JSON; soft-deleted accounts keep their document
// with active=false and drop out of every default-scoped read.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"       json:"id"`
	Name              string             `bson:"name"                json:"name"`
	Email             string             `bson:"email"               json:"email"`
	Photo             string             `bson:"photo,omitempty"     json:"photo,omitempty"`
	PasswordHash      string             `bson:"password"            json:"-"`
	Role              string             `bson:"role"                json:"role,omitempty"`
	Active            bool               `bson:"active"              json:"-"`
	PasswordChangedAt *time.Time         `bson:"passwordChangedAt,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt"           json:"created_at"`
	UpdatedAt         time.Time          `bson:"updatedAt"           json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ChangedPasswordAfter reports whether the password changed at or
// after the given token issue time, which invalidates that token.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return !u.PasswordChangedAt.Before(issuedAt)
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleGuide || role == RoleAdmin
}
