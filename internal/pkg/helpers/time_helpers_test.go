package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 12*time.Hour, ParseDuration("12h", time.Minute))
	assert.Equal(t, 90*time.Minute, ParseDuration("1h30m", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("twelve hours", time.Minute))
}
