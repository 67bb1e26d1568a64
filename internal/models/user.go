package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognized by the access checks. Anything else is a regular
// account with no panel access.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// User is an account in the "users" collection. Password holds the bcrypt
// hash and is never serialized to JSON.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role" json:"role"`
}

// CanModerate reports whether the role grants admin panel access.
func CanModerate(role string) bool {
	return role == RoleAdmin || role == RoleModerator
}
