package stats

import "sort"

// RankAxis selects which metric a top-K ranking orders by.
type RankAxis int

const (
	RankByVolume RankAxis = iota
	RankBySuccessCount
)

// RankedUser is one entry of a top-K list.
type RankedUser struct {
	Username     string `json:"username"`
	Count        int    `json:"count"`
	TotalBytes   int64  `json:"total_bytes"`
	SuccessCount int    `json:"success_count"`
	SuccessBytes int64  `json:"success_bytes"`
}

// TopUsers returns the k highest-ranked users from a per-user rollup.
// Ordering is a total order: primary metric descending, then username
// ascending, so ties are deterministic. k <= 0 yields an empty list; k larger
// than the number of distinct users yields all of them.
func TopUsers(byUser map[string]UserTotals, axis RankAxis, k int) []RankedUser {
	ranked := make([]RankedUser, 0, len(byUser))
	if k <= 0 {
		return ranked
	}

	for name, t := range byUser {
		ranked = append(ranked, RankedUser{
			Username:     name,
			Count:        t.Count,
			TotalBytes:   t.TotalBytes,
			SuccessCount: t.SuccessCount,
			SuccessBytes: t.SuccessBytes,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch axis {
		case RankBySuccessCount:
			if a.SuccessCount != b.SuccessCount {
				return a.SuccessCount > b.SuccessCount
			}
		default:
			if a.TotalBytes != b.TotalBytes {
				return a.TotalBytes > b.TotalBytes
			}
		}
		return a.Username < b.Username
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// RankedType is one entry of a top-K file-type list.
type RankedType struct {
	Ext        string `json:"ext"`
	Count      int    `json:"count"`
	TotalBytes int64  `json:"total_bytes"`
}

// TopFiletypes returns the k file types with the largest volume, ties broken
// by extension ascending.
func TopFiletypes(byType map[string]TypeTotals, k int) []RankedType {
	ranked := make([]RankedType, 0, len(byType))
	if k <= 0 {
		return ranked
	}

	for ext, t := range byType {
		ranked = append(ranked, RankedType{Ext: ext, Count: t.Count, TotalBytes: t.TotalBytes})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalBytes != ranked[j].TotalBytes {
			return ranked[i].TotalBytes > ranked[j].TotalBytes
		}
		return ranked[i].Ext < ranked[j].Ext
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
