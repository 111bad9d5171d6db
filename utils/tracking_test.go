package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trackingPattern = regexp.MustCompile(`^WC-\d{8}-\d{5}$`)

func TestGenerateTrackingNumberFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		number := GenerateTrackingNumber()
		assert.Regexp(t, trackingPattern, number)
	}
}

func TestGenerateTrackingNumberEmbedsCreationDate(t *testing.T) {
	number := GenerateTrackingNumber()
	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, time.Now().Format("20060102"), parts[1])
}

func TestGenerateTrackingNumberRandomPartRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		parts := strings.Split(GenerateTrackingNumber(), "-")
		require.Len(t, parts, 3)
		n, err := strconv.Atoi(parts[2])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 10000)
		assert.LessOrEqual(t, n, 99999)
	}
}
