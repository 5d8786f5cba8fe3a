package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControlNumberPattern(t *testing.T) {
	assert.True(t, ControlNumberPattern.MatchString("TXN0A1B2C3D4E"))
	assert.False(t, ControlNumberPattern.MatchString("TXN0a1b2c3d4e"))
	assert.False(t, ControlNumberPattern.MatchString("TXN123"))
	assert.False(t, ControlNumberPattern.MatchString("ABC0A1B2C3D4E"))
}

func TestPayment_Reference(t *testing.T) {
	assert.Equal(t, "TXN0A1B2C3D4E", Payment{ControlNumber: "TXN0A1B2C3D4E", ProviderReference: "REF1"}.Reference())
	assert.Equal(t, "REF123456", Payment{ProviderReference: "REF123456"}.Reference())
	assert.Equal(t, "-", Payment{}.Reference())
}
