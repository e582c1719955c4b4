package profile

import "time"

type CreateUserRequest struct {
	ClerkID string `json:"clerkId" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required"`
}

type UpdateProfileRequest struct {
	Name            string     `json:"name,omitempty"`
	BirthDate       *time.Time `json:"birthDate,omitempty"`
	Bio             *string    `json:"bio,omitempty"`
	Interests       []string   `json:"interests,omitempty"`
	ProfilePhotoURL *string    `json:"profilePhotoUrl,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	ZodiacSign      *string    `json:"zodiacSign,omitempty"`
	HairColor       *string    `json:"hairColor,omitempty"`
	EyeColor        *string    `json:"eyeColor,omitempty"`
	Height          *int       `json:"height,omitempty"`
	Weight          *int       `json:"weight,omitempty"`
	Origin          *string    `json:"origin,omitempty"`
	BodyType        *string    `json:"bodyType,omitempty"`
	HasChildren     *bool      `json:"hasChildren,omitempty"`
	WantsChildren   *bool      `json:"wantsChildren,omitempty"`
	LookingFor      *string    `json:"lookingFor,omitempty"`
}
