package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidSerial(t *testing.T) {
	assert.True(t, IsValidSerial("SN1"))
	assert.True(t, IsValidSerial("FRN000001"))
	assert.True(t, IsValidSerial("abc123XYZ"))

	assert.False(t, IsValidSerial(""))
	assert.False(t, IsValidSerial("AB"))
	assert.False(t, IsValidSerial("SN 001"))
	assert.False(t, IsValidSerial("SN-001"))
	assert.False(t, IsValidSerial("SN_001"))
}

func TestValidateStruct(t *testing.T) {
	type payload struct {
		Serial string `validate:"required,serial"`
	}

	require.NoError(t, ValidateStruct(&payload{Serial: "SN001"}))
	assert.Error(t, ValidateStruct(&payload{Serial: ""}))
	assert.Error(t, ValidateStruct(&payload{Serial: "no spaces"}))
}
