package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	assert.Equal(t, Version, Get())
}

func TestVersionFormat(t *testing.T) {
	s := Get()
	assert.NotEmpty(t, s)
	// Release strings carry a leading 'v', matching the git tags
	assert.True(t, strings.HasPrefix(s, "v"))
}
