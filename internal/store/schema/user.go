package schema

import (
	"strings"
	"time"
)

// User represents the users table - local mirror of identity-provider accounts.
// Rows are created and overwritten by webhook events; deletion is a soft delete
// via DeletedAt so holdings, orders and transactions keep a valid owner.
type User struct {
	// ID is the internal primary key (UUID)
	ID string `gorm:"column:id;primaryKey;type:uuid"`
	// ProviderUserID is the identity provider's user identifier
	ProviderUserID string `gorm:"column:provider_user_id;not null;uniqueIndex;type:text"`
	// Email is the resolved primary email address (may be empty when the
	// provider payload carried no addresses)
	Email string `gorm:"column:email;not null;type:text"`
	// FirstName is the provider-supplied given name
	FirstName *string `gorm:"column:first_name;type:text"`
	// LastName is the provider-supplied family name
	LastName *string `gorm:"column:last_name;type:text"`
	// ImageURL is the profile image, preferring the provider's primary image field
	ImageURL *string `gorm:"column:image_url;type:text"`
	// CreatedAt is the provider-supplied creation timestamp
	CreatedAt time.Time `gorm:"column:created_at;not null;type:timestamptz"`
	// UpdatedAt is the provider-supplied last-update timestamp
	UpdatedAt time.Time `gorm:"column:updated_at;not null;type:timestamptz"`
	// DeletedAt marks a soft-deleted account; the row is never removed
	DeletedAt *time.Time `gorm:"column:deleted_at;type:timestamptz"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// DisplayName joins the optional first and last names, trimmed of
// surrounding whitespace when either part is missing
func (u *User) DisplayName() string {
	first, last := "", ""
	if u.FirstName != nil {
		first = *u.FirstName
	}
	if u.LastName != nil {
		last = *u.LastName
	}
	return joinName(first, last)
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
