package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTabGroupMode_IsValid(t *testing.T) {
	require.True(t, TabGroupModeNormal.IsValid())
	require.True(t, TabGroupModeGlance.IsValid())
	require.True(t, TabGroupModeSplit.IsValid())
	require.False(t, TabGroupMode("stacked").IsValid())
	require.False(t, TabGroupMode("").IsValid())
}

func TestTab_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		tab  Tab
		want string
	}{
		{
			name: "showing pinned url uses pinned name",
			tab:  Tab{Title: "Inbox (3)", URL: "https://mail.example.com", PinnedURL: "https://mail.example.com", PinnedName: "Mail"},
			want: "Mail",
		},
		{
			name: "showing pinned url without name uses title",
			tab:  Tab{Title: "Inbox (3)", URL: "https://mail.example.com", PinnedURL: "https://mail.example.com"},
			want: "Inbox (3)",
		},
		{
			name: "navigated away uses title",
			tab:  Tab{Title: "Settings", URL: "https://mail.example.com/settings", PinnedURL: "https://mail.example.com", PinnedName: "Mail"},
			want: "Settings",
		},
		{
			name: "no url falls back to pinned name",
			tab:  Tab{Title: "New Tab", PinnedName: "Mail"},
			want: "Mail",
		},
		{
			name: "no url and no pinned name uses title",
			tab:  Tab{Title: "New Tab"},
			want: "New Tab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.tab.DisplayName())
		})
	}
}

func TestTab_HasDriftedFromPinnedURL(t *testing.T) {
	require.False(t, Tab{URL: "https://a"}.HasDriftedFromPinnedURL(), "no pinned url never drifts")
	require.False(t, Tab{URL: "https://a", PinnedURL: "https://a"}.HasDriftedFromPinnedURL())
	require.True(t, Tab{URL: "https://b", PinnedURL: "https://a"}.HasDriftedFromPinnedURL())
}

func TestTabGroup_PrimaryTab(t *testing.T) {
	g := TabGroup{Tabs: []Tab{{ID: 7}, {ID: 9}}}
	require.Equal(t, 7, g.PrimaryTab().ID)
	require.True(t, g.HasTab(9))
	require.False(t, g.HasTab(8))

	require.Equal(t, 0, TabGroup{}.PrimaryTab().ID, "empty group yields zero tab")
}

func TestApplyPinOptions(t *testing.T) {
	s := ApplyPinOptions()
	require.Nil(t, s.URL)
	require.Nil(t, s.Name)

	s = ApplyPinOptions(WithPinnedURL("https://a"), WithPinnedName(""))
	require.NotNil(t, s.URL)
	require.Equal(t, "https://a", *s.URL)
	require.NotNil(t, s.Name, "empty name is an explicit clear")
	require.Equal(t, "", *s.Name)
}

func TestErrors(t *testing.T) {
	var err error = &TabNotFoundError{TabID: 4}
	require.Equal(t, "tab not found: 4", err.Error())

	var notFound *TabNotFoundError
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, 4, notFound.TabID)

	err = &SpaceNotFoundError{SpaceID: "work"}
	require.Equal(t, "space not found: work", err.Error())

	err = &CrossProfileMoveError{TabID: 1, FromProfileID: "p1", ToProfileID: "p2"}
	require.Contains(t, err.Error(), "profile p1 to profile p2")
}
