package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestDisplayName_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected string
	}{
		{"full name wins", Profile{FullName: strptr("Alice Doe"), Username: strptr("alice")}, "Alice Doe"},
		{"username when no full name", Profile{Username: strptr("alice")}, "alice"},
		{"empty full name falls through", Profile{FullName: strptr(""), Username: strptr("alice")}, "alice"},
		{"anonymous when nothing set", Profile{}, "Anonymous User"},
		{"anonymous when both empty", Profile{FullName: strptr(""), Username: strptr("")}, "Anonymous User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.profile.DisplayName())
		})
	}
}

func TestAvatar_FallsBackToGenerated(t *testing.T) {
	p := Profile{ID: "user-1", AvatarURL: strptr("https://cdn.example.com/a.png")}
	assert.Equal(t, "https://cdn.example.com/a.png", p.Avatar())

	p = Profile{ID: "user-1"}
	assert.Equal(t, "https://api.dicebear.com/7.x/micah/svg?seed=user-1", p.Avatar())

	p = Profile{ID: "user-1", AvatarURL: strptr("")}
	assert.Contains(t, p.Avatar(), "seed=user-1")
}

func TestToSummary_StatusDefault(t *testing.T) {
	p := Profile{ID: "user-1", Username: strptr("alice")}

	summary := p.ToSummary(true)

	assert.Equal(t, "Available", summary.Status)
	assert.Equal(t, "alice", summary.DisplayName)
	assert.True(t, summary.Online)

	p.Status = strptr("Busy")
	assert.Equal(t, "Busy", p.ToSummary(false).Status)
}
