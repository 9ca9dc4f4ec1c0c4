package session

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 35, c.BlurRadius)
	assert.Equal(t, 50, c.BrushSize)
	assert.Equal(t, 30, c.FrameRate)
	assert.Equal(t, "user", c.FacingMode)
	assert.Equal(t, "circle.png", c.BrushAsset)
	assert.False(t, c.Debug)
}

func TestFromQuery(t *testing.T) {
	q, err := url.ParseQuery("debug&blur=20&brushsrc=/assets/ink.png&brush=40&fps=24&facing=environment")
	require.NoError(t, err)

	c, err := FromQuery(q)
	require.NoError(t, err)
	assert.True(t, c.Debug)
	assert.Equal(t, 20, c.BlurRadius)
	assert.Equal(t, "/assets/ink.png", c.BrushAsset)
	assert.Equal(t, 40, c.BrushSize)
	assert.Equal(t, 24, c.FrameRate)
	assert.Equal(t, "environment", c.FacingMode)
}

func TestFromQueryEmpty(t *testing.T) {
	c, err := FromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestFromQueryInvalid(t *testing.T) {
	for _, raw := range []string{"blur=abc", "blur=99", "brush=0", "fps=-1"} {
		q, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = FromQuery(q)
		assert.Error(t, err, raw)
	}
}

func TestFromQueryEmptyBrushSource(t *testing.T) {
	q, err := url.ParseQuery("brushsrc=")
	require.NoError(t, err)

	c, err := FromQuery(q)
	require.NoError(t, err)
	assert.Empty(t, c.BrushAsset, "an empty brushsrc selects the built-in ink")
}
