package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditsForStreakIsCumulative(t *testing.T) {
	cases := []struct {
		streak int
		want   int
	}{
		{0, 0},
		{6, 0},
		{7, 1},
		{13, 1},
		{14, 2},
		{30, 4},
		{50, 6},
		{99, 6},
		{100, 11},
		{150, 16},
		{200, 26},
		{365, 26},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CreditsForStreak(tc.streak), "streak %d", tc.streak)
	}
}

func TestMilestoneAt(t *testing.T) {
	m := MilestoneAt(7)
	require.NotNil(t, m)
	assert.Equal(t, "First Spark", m.Name)
	assert.Equal(t, 1, m.Credits)

	assert.Nil(t, MilestoneAt(8))
	assert.Nil(t, MilestoneAt(0))

	m = MilestoneAt(200)
	require.NotNil(t, m)
	assert.Equal(t, 10, m.Credits)
}

func TestNextMilestone(t *testing.T) {
	m := NextMilestone(0)
	require.NotNil(t, m)
	assert.Equal(t, 7, m.Days)

	m = NextMilestone(7)
	require.NotNil(t, m)
	assert.Equal(t, 14, m.Days)

	m = NextMilestone(101)
	require.NotNil(t, m)
	assert.Equal(t, 150, m.Days)

	assert.Nil(t, NextMilestone(200))
	assert.Nil(t, NextMilestone(999))
}

func TestMilestoneTableIsAscending(t *testing.T) {
	for i := 1; i < len(Milestones); i++ {
		assert.Greater(t, Milestones[i].Days, Milestones[i-1].Days)
	}
	for _, m := range Milestones {
		assert.Positive(t, m.Credits)
		assert.NotEmpty(t, m.Name)
	}
}
