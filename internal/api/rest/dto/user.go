// Package dto defines the REST wire types and the mapping from schema rows
// onto them. All endpoints wrap their payloads in the Response envelope.
package dto

import (
	"time"

	"github.com/openpredict/market-api/internal/store/schema"
)

// UserSummary is the compact user projection embedded in market payloads
type UserSummary struct {
	ID        string  `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UserResponse is the full synced user returned by the current-user endpoint
type UserResponse struct {
	ID             string     `json:"id"`
	ProviderUserID string     `json:"providerUserId"`
	Email          string     `json:"email"`
	FirstName      *string    `json:"firstName"`
	LastName       *string    `json:"lastName"`
	ImageURL       *string    `json:"imageUrl"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`
}

// MapUserSummary maps a user row onto its compact projection
func MapUserSummary(user *schema.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// MapUser maps a user row onto the full response shape
func MapUser(user *schema.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID,
		ProviderUserID: user.ProviderUserID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ImageURL:       user.ImageURL,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
		DeletedAt:      user.DeletedAt,
	}
}
