package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandStr(t *testing.T) {
	assert.Len(t, RandStr(10), 10)
	assert.Empty(t, RandStr(0))
	assert.NotEqual(t, RandStr(16), RandStr(16))
}

func TestSizeMB(t *testing.T) {
	assert.Equal(t, 0.0, SizeMB(0))
	assert.Equal(t, 1.0, SizeMB(1<<20))
	assert.Equal(t, 0.5, SizeMB(1<<19))
	assert.Equal(t, 2.25, SizeMB(2359296))
	assert.Equal(t, 0.0, SizeMB(1024)) // below the two-decimal floor
}
