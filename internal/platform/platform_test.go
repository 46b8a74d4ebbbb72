package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-memfs/memfs/internal/platform"
)

func TestParseFlagStrings(t *testing.T) {
	c := platform.Default

	flag, err := platform.Parse(c, "rw+")
	require.NoError(t, err)
	assert.Equal(t, c.O_RDWR|c.O_CREAT, flag)

	flag, err = platform.Parse(c, "a")
	require.NoError(t, err)
	assert.Equal(t, c.O_WRONLY|c.O_CREAT|c.O_APPEND, flag)

	_, err = platform.Parse(c, "bogus")
	assert.Error(t, err)
}

func TestAccessMode(t *testing.T) {
	c := platform.Default
	assert.Equal(t, c.O_RDWR, platform.AccessMode(c, c.O_RDWR|c.O_APPEND))
}
