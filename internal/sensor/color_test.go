package sensor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseColor covers both accepted formats and a few malformed inputs.
func TestParseColor(t *testing.T) {
	t.Parallel()

	c, err := ParseColor("#00FF00")
	require.NoError(t, err)
	require.Equal(t, ColorGreen, c)
	require.Equal(t, "#00FF00FF", c.Hex())
	require.Equal(t, "#00FF00", c.RGBHex())

	c, err = ParseColor("ff000080")
	require.NoError(t, err)
	require.Equal(t, Color{R: 255, A: 128}, c)

	for _, bad := range []string{"", "#fff", "#GG0000", "#00ff00ff00"} {
		_, err = ParseColor(bad)
		require.ErrorIs(t, err, errBadColor, "input %q", bad)
	}
}
