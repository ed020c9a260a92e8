package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserProfile_Recent(t *testing.T) {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	p := NewUserProfile("u1")
	p.AddInteraction("a", InteractionView, base)
	p.AddInteraction("b", InteractionClick, base.Add(2*time.Hour))
	p.AddInteraction("c", InteractionClick, base.Add(time.Hour))
	p.AddInteraction("a", InteractionPurchase, base.Add(3*time.Hour))
	p.AddInteraction("d", InteractionView, base.Add(time.Hour))

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "unlimited", n: 0, want: []string{"a", "b", "c", "d"}},
		{name: "window of two", n: 2, want: []string{"a", "b"}},
		{name: "window larger than history", n: 10, want: []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Recent(tt.n))
		})
	}
}

func TestUserProfile_Empty(t *testing.T) {
	var nilProfile *UserProfile
	assert.True(t, nilProfile.IsEmpty())
	assert.Nil(t, nilProfile.Recent(3))
	assert.Empty(t, nilProfile.Interacted())

	p := NewUserProfile("u1")
	assert.True(t, p.IsEmpty())
	p.AddInteraction("x", InteractionView, time.Now())
	assert.False(t, p.IsEmpty())
	assert.Contains(t, p.Interacted(), "x")
}
