package reorder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClosestEdge(t *testing.T) {
	tests := []struct {
		name        string
		y, top, bot int
		want        Edge
	}{
		{"single row", 5, 5, 5, EdgeBottom},
		{"two rows upper", 5, 5, 6, EdgeTop},
		{"two rows lower", 6, 5, 6, EdgeBottom},
		{"three rows middle", 6, 5, 7, EdgeBottom},
		{"four rows second", 6, 5, 8, EdgeTop},
		{"four rows third", 7, 5, 8, EdgeBottom},
		{"above", 4, 5, 8, EdgeNone},
		{"below", 9, 5, 8, EdgeNone},
		{"inverted bounds", 5, 6, 5, EdgeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ClosestEdge(tt.y, tt.top, tt.bot))
		})
	}
}

func TestParseEdge(t *testing.T) {
	require.Equal(t, EdgeTop, ParseEdge("top"))
	require.Equal(t, EdgeBottom, ParseEdge("bottom"))
	require.Equal(t, EdgeNone, ParseEdge("left"))
	require.Equal(t, "top", EdgeTop.String())
	require.Equal(t, "none", EdgeNone.String())
}
