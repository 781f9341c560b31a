package models

import (
	"fmt"
	"time"
)

// Profile represents a user identity. Nullable columns stay pointers so the
// fallback rules live here, at the boundary, instead of in every caller.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Username  *string   `json:"username,omitempty" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password_hash"` // Never expose in JSON
	FullName  *string   `json:"fullName,omitempty" db:"full_name"`
	AvatarURL *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	Status    *string   `json:"status,omitempty" db:"status"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ProfileSummary is the display form sent to clients, with all fallbacks
// already resolved.
type ProfileSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Status      string `json:"status"`
	Online      bool   `json:"online"`
}

// FallbackAvatar returns a deterministic generated avatar keyed by user id.
func FallbackAvatar(userID string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/micah/svg?seed=%s", userID)
}

// DisplayName falls back full name -> username -> "Anonymous User".
func (p *Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return "Anonymous User"
}

// Avatar returns the stored avatar URL or the generated fallback.
func (p *Profile) Avatar() string {
	if p.AvatarURL != nil && *p.AvatarURL != "" {
		return *p.AvatarURL
	}
	return FallbackAvatar(p.ID)
}

// ToSummary resolves display fields for client consumption.
func (p *Profile) ToSummary(online bool) ProfileSummary {
	status := "Available"
	if p.Status != nil && *p.Status != "" {
		status = *p.Status
	}
	return ProfileSummary{
		ID:          p.ID,
		DisplayName: p.DisplayName(),
		AvatarURL:   p.Avatar(),
		Status:      status,
		Online:      online,
	}
}
