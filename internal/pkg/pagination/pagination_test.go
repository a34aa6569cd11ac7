package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromQuery(t *testing.T) {
	p := FromQuery("25", "50")
	require.Equal(t, 25, p.Limit)
	require.Equal(t, 50, p.Offset)

	p = FromQuery("", "")
	require.Equal(t, DefaultLimit, p.Limit)
	require.Equal(t, 0, p.Offset)

	p = FromQuery("-3", "-7")
	require.Equal(t, DefaultLimit, p.Limit)
	require.Equal(t, 0, p.Offset)

	p = FromQuery("9999", "0")
	require.Equal(t, MaxLimit, p.Limit)
}

func TestTrim(t *testing.T) {
	p := Page{Limit: 2}

	// Three rows against limit 2: the probe row is dropped, more is true.
	rows, more := Trim([]int{1, 2, 3}, p)
	require.Equal(t, []int{1, 2}, rows)
	require.True(t, more)

	// Exactly a full page: nothing dropped, more is false.
	rows, more = Trim([]int{1, 2}, p)
	require.Equal(t, []int{1, 2}, rows)
	require.False(t, more)

	rows, more = Trim([]int{}, p)
	require.Empty(t, rows)
	require.False(t, more)
}
