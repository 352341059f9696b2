package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskString_Production(t *testing.T) {
	orig := IsProduction
	IsProduction = true
	defer func() { IsProduction = orig }()

	masked := MaskString("user pat@example.com spent 42.50 USD")
	assert.NotContains(t, masked, "pat@example.com")
	assert.NotContains(t, masked, "42.50 USD")

	id := "123e4567-e89b-12d3-a456-426614174000"
	assert.Equal(t, "123e4567...", MaskString(id))
}

func TestMaskString_Development(t *testing.T) {
	orig := IsProduction
	IsProduction = false
	defer func() { IsProduction = orig }()

	input := "user pat@example.com spent 42.50 USD"
	assert.Equal(t, input, MaskString(input))
}

func TestMaskID(t *testing.T) {
	orig := IsProduction
	IsProduction = true
	defer func() { IsProduction = orig }()

	assert.Equal(t, "123e4567...", MaskID("123e4567-e89b-12d3-a456-426614174000"))
	assert.Equal(t, "***", MaskID("short"))
}
