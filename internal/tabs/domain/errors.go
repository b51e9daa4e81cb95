package domain

import "fmt"

// TabNotFoundError is returned when a tab id does not exist in the store.
type TabNotFoundError struct {
	TabID int
}

func (e *TabNotFoundError) Error() string {
	return fmt.Sprintf("tab not found: %d", e.TabID)
}

// SpaceNotFoundError is returned when a space id does not exist in the store.
type SpaceNotFoundError struct {
	SpaceID string
}

func (e *SpaceNotFoundError) Error() string {
	return fmt.Sprintf("space not found: %s", e.SpaceID)
}

// CrossProfileMoveError is returned by stores asked to move a tab into a space
// of another profile.
type CrossProfileMoveError struct {
	TabID         int
	FromProfileID string
	ToProfileID   string
}

func (e *CrossProfileMoveError) Error() string {
	return fmt.Sprintf("cannot move tab %d from profile %s to profile %s", e.TabID, e.FromProfileID, e.ToProfileID)
}
