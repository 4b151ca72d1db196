package frequency

import (
	"sort"

	"grocery-report/internal/domain"
)

// TopItems returns the n most frequent products. Products with equal
// frequency keep their input (first-seen) order.
func TopItems(stats []domain.ProductStat, n int) []domain.ProductStat {
	if n <= 0 || len(stats) == 0 {
		return nil
	}
	sorted := sortByFrequency(stats)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// GroupByCategory partitions the full product set by category id. Members are
// ranked by frequency and truncated to perCategory; groups are ranked by the
// sum of frequency over all their members. Both sorts are stable.
func GroupByCategory(stats []domain.ProductStat, perCategory int) []domain.CategoryGroup {
	index := make(map[int64]int)
	var groups []domain.CategoryGroup

	for _, st := range stats {
		i, ok := index[st.CategoryID]
		if !ok {
			name := st.Category
			if name == "" {
				name = domain.UncategorizedName
			}
			i = len(groups)
			index[st.CategoryID] = i
			groups = append(groups, domain.CategoryGroup{
				CategoryID:   st.CategoryID,
				CategoryName: name,
			})
		}
		groups[i].Products = append(groups[i].Products, st)
		groups[i].TotalFrequency += st.Frequency
	}

	for i := range groups {
		members := sortByFrequency(groups[i].Products)
		if perCategory > 0 && len(members) > perCategory {
			members = members[:perCategory]
		}
		groups[i].Products = members
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalFrequency > groups[j].TotalFrequency
	})

	return groups
}

func sortByFrequency(stats []domain.ProductStat) []domain.ProductStat {
	sorted := make([]domain.ProductStat, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Frequency > sorted[j].Frequency
	})
	return sorted
}
