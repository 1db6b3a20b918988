// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/postsmith/internal/random"
)

func TestNormalize(t *testing.T) {
	c := New(nil, nil)

	tests := []struct {
		name  string
		title string
		draw  int
		want  string
	}{
		{"guide marker", "Social Media Content Strategy: A Practical Guide", 0, "Social Media Content Strategy: A Practical Guide"},
		{"checklist marker", "The Ultimate On-Page SEO Checklist", 0, "The Ultimate On-Page SEO Checklist"},
		{"proven marker any case", "10 PROVEN Tactics", 0, "10 PROVEN Tactics"},
		{"year marker", "Local Search in 2025", 2, "Local Search in 2025"},
		{"first phrase", "Website Performance Optimization: Quick Wins", 0, "Ultimate Guide: Website Performance Optimization: Quick Wins"},
		{"second phrase", "Unknown Best Practices", 1, "How to Unknown Best Practices"},
		{"third phrase", "Email Funnels", 2, "Top Tips: Email Funnels"},
		{"fourth phrase", "Email Funnels", 3, "Proven: Email Funnels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Normalize(tt.title, random.NewScripted(tt.draw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIdempotentOnMarkerTitles(t *testing.T) {
	c := New(nil, nil)
	titles := []string{
		"The Ultimate On-Page SEO Checklist",
		"10 Proven SEO Tactics for 2025",
		"Beginner guide to analytics",
		"Plain Title",
	}
	for _, title := range titles {
		for draw := 0; draw < len(DefaultPhrases); draw++ {
			once := c.Normalize(title, random.NewScripted(draw))
			if !c.HasMarker(once) {
				continue
			}
			twice := c.Normalize(once, random.NewScripted(draw+1))
			assert.Equal(t, once, twice, "title %q draw %d", title, draw)
		}
	}
}

func TestNormalizeDrawsOnlyWhenNeeded(t *testing.T) {
	c := New(nil, nil)
	rng := random.NewScripted(0)

	c.Normalize("Ultimate list", rng)
	assert.Equal(t, 0, rng.Draws())

	c.Normalize("Plain", rng)
	assert.Equal(t, 1, rng.Draws())
}

func TestHasMarker(t *testing.T) {
	c := New(nil, nil)
	assert.True(t, c.HasMarker("Trends for 1999"))
	assert.True(t, c.HasMarker("A GUIDE"))
	assert.False(t, c.HasMarker("Error 202 explained"))
	assert.False(t, c.HasMarker("Website Quick Wins"))
}

func TestCustomSets(t *testing.T) {
	c := New([]string{"Panduan"}, []string{"Rahasia"})
	assert.Equal(t, "Panduan Lengkap SEO", c.Normalize("Panduan Lengkap SEO", random.NewScripted(0)))
	assert.Equal(t, "Rahasia SEO Lokal", c.Normalize("SEO Lokal", random.NewScripted(0)))
	assert.Equal(t, "Rahasia Ultimate list", c.Normalize("Ultimate list", random.NewScripted(0)), "custom markers replace the defaults")
}
