package cli

import "testing"

func TestLogRejectsNonPositiveDays(t *testing.T) {
	for _, days := range []int{0, -1, -10} {
		cmd := &LogCmd{Days: days}
		if err := cmd.Run(&Context{}); err == nil {
			t.Errorf("LogCmd.Run with --days %d should fail", days)
		}
	}
}
