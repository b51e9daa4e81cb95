package toaster

import (
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestNew(t *testing.T) {
	m := New()

	require.False(t, m.Visible())
	require.Empty(t, m.View(40))
}

func TestShow(t *testing.T) {
	m, cmd := New().Show("Moved to Research", StyleSuccess, time.Millisecond)

	require.True(t, m.Visible())
	require.Equal(t, "✓ Moved to Research", m.View(40))
	require.NotNil(t, cmd)
}

func TestShow_Styles(t *testing.T) {
	m, _ := New().Show("cannot drop a tab onto itself", StyleError, time.Second)
	require.Equal(t, "✗ cannot drop a tab onto itself", m.View(80))

	m, _ = m.Show("Refreshed", StyleInfo, time.Second)
	require.Equal(t, "i Refreshed", m.View(80))
}

func TestShow_EmptyMessageStaysHidden(t *testing.T) {
	m, _ := New().Show("", StyleSuccess, time.Second)
	require.False(t, m.Visible())
}

func TestView_Truncates(t *testing.T) {
	m, _ := New().Show("Closed 12 tabs in Work", StyleSuccess, time.Second)
	require.Equal(t, "✓ Closed…", m.View(9))
}

func TestDismiss_OnlyCurrentToast(t *testing.T) {
	m, first := New().Show("first", StyleSuccess, time.Millisecond)
	m, second := m.Show("second", StyleSuccess, time.Millisecond)

	m = m.Dismiss(first().(DismissMsg))
	require.True(t, m.Visible())
	require.Contains(t, m.View(40), "second")

	m = m.Dismiss(second().(DismissMsg))
	require.False(t, m.Visible())
}

func TestShowCmd(t *testing.T) {
	msg := Show("Renamed", StyleInfo)()
	require.Equal(t, ShowMsg{Message: "Renamed", Style: StyleInfo}, msg)
}
