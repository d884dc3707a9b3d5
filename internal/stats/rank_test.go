package stats

import "testing"

func TestTopUsers(t *testing.T) {
	byUser := map[string]UserTotals{
		"carol": {Count: 3, TotalBytes: 300, SuccessCount: 3, SuccessBytes: 300},
		"alice": {Count: 1, TotalBytes: 500, SuccessCount: 1, SuccessBytes: 500},
		"bob":   {Count: 2, TotalBytes: 500, SuccessCount: 2, SuccessBytes: 400},
	}

	tests := []struct {
		name string
		axis RankAxis
		k    int
		want []string
	}{
		// alice and bob tie on volume; lexical order breaks the tie.
		{"volume with tie", RankByVolume, 3, []string{"alice", "bob", "carol"}},
		{"volume truncated", RankByVolume, 2, []string{"alice", "bob"}},
		{"success count", RankBySuccessCount, 3, []string{"carol", "bob", "alice"}},
		{"k exceeds users", RankByVolume, 10, []string{"alice", "bob", "carol"}},
		{"k zero", RankByVolume, 0, []string{}},
		{"k negative", RankByVolume, -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopUsers(byUser, tt.axis, tt.k)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Username != name {
					t.Errorf("position %d = %s, want %s", i, got[i].Username, name)
				}
			}
		})
	}
}

func TestTopUsersDeterministic(t *testing.T) {
	// Identical metrics across the board: output order must be stable across
	// repeated calls despite map iteration order.
	byUser := map[string]UserTotals{
		"u1": {TotalBytes: 100}, "u2": {TotalBytes: 100}, "u3": {TotalBytes: 100},
		"u4": {TotalBytes: 100}, "u5": {TotalBytes: 100},
	}

	first := TopUsers(byUser, RankByVolume, 5)
	for i := 0; i < 10; i++ {
		again := TopUsers(byUser, RankByVolume, 5)
		for j := range first {
			if again[j].Username != first[j].Username {
				t.Fatalf("run %d: position %d = %s, want %s", i, j, again[j].Username, first[j].Username)
			}
		}
	}
}

func TestTopFiletypes(t *testing.T) {
	byType := map[string]TypeTotals{
		"flac":  {Count: 10, TotalBytes: 5000},
		"mp3":   {Count: 50, TotalBytes: 3000},
		"other": {Count: 1, TotalBytes: 5000},
	}

	got := TopFiletypes(byType, 2)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Ext != "flac" || got[1].Ext != "other" {
		t.Errorf("order = [%s %s], want [flac other] (volume tie broken by extension)", got[0].Ext, got[1].Ext)
	}
}
