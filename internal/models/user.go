package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account record. Password holds the Argon2id hash and is never
// serialized into responses.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`

	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Don't return password in JSON

	// Profile fields
	Bio        string `bson:"bio,omitempty" json:"bio"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	ProfilePic string `bson:"profile_pic,omitempty" json:"profilePic"`

	// Presence
	IsOnline bool      `bson:"is_online" json:"isOnline"`
	LastSeen time.Time `bson:"last_seen" json:"lastSeen"`
}
