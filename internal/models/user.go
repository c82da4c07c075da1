package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string
type DevicePlatform string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"

	DevicePlatformAndroid DevicePlatform = "android"
	DevicePlatformIOS     DevicePlatform = "ios"
)

type DeviceToken struct {
	Platform     DevicePlatform `json:"platform" bson:"platform"`
	Token        string         `json:"token" bson:"token"`
	RegisteredAt time.Time      `json:"registered_at" bson:"registered_at"`
}

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName    string             `json:"first_name" bson:"first_name" validate:"required,min=2,max=50"`
	LastName     string             `json:"last_name" bson:"last_name" validate:"required,min=2,max=50"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Language     string             `json:"language" bson:"language" default:"en"`
	Status       UserStatus         `json:"status" bson:"status" default:"active"`
	Goals        EcoGoals           `json:"goals" bson:"goals"`
	DeviceTokens []DeviceToken      `json:"device_tokens" bson:"device_tokens"`
	LastActiveAt *time.Time         `json:"last_active_at" bson:"last_active_at"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
