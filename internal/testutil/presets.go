package testutil

import "github.com/flowbrowser/flowbar/internal/tabs/domain"

// WithStandardTestData adds two spaces of the "work" profile and one space
// of the "home" profile:
//
//	work-a: pinned 1 (mail), 2 (calendar), 3 (chat); groups [10], [11 12 split], [13]
//	work-b: pinned 4 (docs); groups [20], [21]
//	home:   pinned 5 (news); groups [30]
func (b *Builder) WithStandardTestData() *Builder {
	return b.
		WithSpace("work-a", InProfile("work"), SpaceName("Work"), SpaceColor("#3b82f6")).
		WithSpace("work-b", InProfile("work"), SpaceName("Research"), SpaceColor("#10b981")).
		WithSpace("home", InProfile("home"), SpaceName("Home"), SpaceColor("#f59e0b")).
		WithPinned("work-a", 1, Title("Inbox"), URL("https://mail.example.com"),
			PinnedURL("https://mail.example.com"), PinnedName("Mail")).
		WithPinned("work-a", 2, Title("Calendar"), URL("https://cal.example.com/week"),
			PinnedURL("https://cal.example.com")).
		WithPinned("work-a", 3, Title("Chat"), URL("https://chat.example.com")).
		WithTab("work-a", 10, Title("Pull request #42"), Active()).
		WithGroup("work-a", []int{11, 12}, Mode(domain.TabGroupModeSplit),
			GroupTab(11, Title("Design doc")), GroupTab(12, Title("Mockups"))).
		WithTab("work-a", 13, Title("CI run"), Asleep()).
		WithPinned("work-b", 4, Title("Docs"), URL("https://docs.example.com")).
		WithTab("work-b", 20, Title("Paper"), Audible()).
		WithTab("work-b", 21, Title("Notes")).
		WithPinned("home", 5, Title("News"), URL("https://news.example.com")).
		WithTab("home", 30, Title("Recipes"), Active())
}
