package ledger

// Milestone is a fixed streak length that awards a one-time credit bonus.
// The descriptor fields (Name, Emoji, Description) are opaque to the ledger
// and exist for celebratory UI.
type Milestone struct {
	Days        int
	Credits     int
	Name        string
	Emoji       string
	Description string
}

// Milestones is the global milestone table, ordered by ascending day
// threshold. It is immutable configuration, not per-user state.
var Milestones = []Milestone{
	{Days: 7, Credits: 1, Name: "First Spark", Emoji: "✨", Description: "One full week"},
	{Days: 14, Credits: 1, Name: "Kindled", Emoji: "🔥", Description: "Two weeks strong"},
	{Days: 30, Credits: 2, Name: "Steady Flame", Emoji: "🕯️", Description: "A whole month"},
	{Days: 50, Credits: 2, Name: "Campfire", Emoji: "🏕️", Description: "Fifty days"},
	{Days: 100, Credits: 5, Name: "Bonfire", Emoji: "🎆", Description: "Triple digits"},
	{Days: 150, Credits: 5, Name: "Beacon", Emoji: "🗼", Description: "One hundred fifty days"},
	{Days: 200, Credits: 10, Name: "Wildfire", Emoji: "🌋", Description: "Two hundred days"},
}

// CreditsForStreak returns the cumulative credit bonus for every milestone
// threshold at or below the given streak length.
func CreditsForStreak(streak int) int {
	total := 0
	for _, m := range Milestones {
		if m.Days > streak {
			break
		}
		total += m.Credits
	}
	return total
}

// MilestoneAt returns the milestone whose threshold exactly equals the given
// streak length, or nil.
func MilestoneAt(streak int) *Milestone {
	for i := range Milestones {
		if Milestones[i].Days == streak {
			return &Milestones[i]
		}
	}
	return nil
}

// NextMilestone returns the smallest milestone threshold strictly greater
// than the given streak, or nil when the streak is at or past the last one.
func NextMilestone(streak int) *Milestone {
	for i := range Milestones {
		if Milestones[i].Days > streak {
			return &Milestones[i]
		}
	}
	return nil
}
