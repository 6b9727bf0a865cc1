package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(16)
	require.NoError(t, err)
	assert.Len(t, code, 32)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]+$`), code)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORNUT\d{8}$`)
	for i := 0; i < 20; i++ {
		number, err := GenerateOrderNumber()
		require.NoError(t, err)
		assert.Regexp(t, pattern, number)
	}
}
