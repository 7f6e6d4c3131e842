package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserSettings struct {
	Theme         string `json:"theme" bson:"theme"`
	Notifications bool   `json:"notifications" bson:"notifications"`
}

type User struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email             string             `json:"email" bson:"email"`
	DisplayName       string             `json:"display_name" bson:"display_name"`
	Password          string             `json:"-" bson:"password"`
	ProfilePicURL     string             `json:"profile_pic_url,omitempty" bson:"profile_pic_url,omitempty"`
	IsVerified        bool               `json:"is_verified" bson:"is_verified"`
	VerificationToken string             `json:"-" bson:"verification_token"`
	ResetToken        string             `json:"-" bson:"reset_token,omitempty"`
	ResetTokenExpiry  time.Time          `json:"-" bson:"reset_token_expiry,omitempty"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" bson:"updated_at"`
	Settings          UserSettings       `json:"settings" bson:"settings"`
}
