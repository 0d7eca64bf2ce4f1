package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierDefaultRules(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name        string
		description string
		want        string
	}{
		{name: "zomato order", description: "Zomato order #123", want: "Food"},
		{name: "restaurant", description: "Dinner at Blue Restaurant", want: "Food"},
		{name: "ride", description: "UBER *TRIP", want: "Transport"},
		{name: "fuel", description: "Shell fuel station", want: "Transport"},
		{name: "flipkart", description: "Flipkart Internet", want: "Shopping"},
		{name: "salary", description: "ACME salary March", want: "Income"},
		{name: "rent", description: "Monthly rent", want: "Rent"},
		{name: "streaming", description: "Spotify premium", want: "Entertainment"},
		{name: "home", description: "Home Depot", want: "Home"},
		{name: "no match", description: "Hardware store", want: "Uncategorized"},
		{name: "empty", description: "", want: "Uncategorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.description).Category)
		})
	}
}

func TestClassifierFirstMatchWins(t *testing.T) {
	c := NewDefaultClassifier()

	// Matches both the food and the transport group; food is listed first.
	m := c.Classify("Swiggy delivery paid with Uber cash")
	assert.Equal(t, "Food", m.Category)
	assert.Equal(t, "food", m.Rule)

	// "Credit" (income) is listed before "rent".
	assert.Equal(t, "Income", c.Classify("rent credit reversal").Category)

	// Substring matching is literal: "ola" appears inside "chocolate".
	assert.Equal(t, "Transport", c.Classify("Chocolate shop").Category)
}

func TestClassifierCustomRules(t *testing.T) {
	c := NewClassifier([]Rule{
		{Name: "coffee", Keywords: []string{" Starbucks ", ""}, Category: "Coffee"},
	})

	m := c.Classify("STARBUCKS #1234")
	assert.Equal(t, "Coffee", m.Category)

	m = c.Classify("anything else")
	assert.Equal(t, "Uncategorized", m.Category)
	assert.Empty(t, m.Rule)

	rules := c.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"starbucks"}, rules[0].Keywords)
}
