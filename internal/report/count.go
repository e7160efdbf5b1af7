package report

import "sort"

// Count is one bucket of a ranking.
type Count struct {
	Name  string
	Count int
}

// countBy tallies keys and sorts descending by count. Keys with equal
// counts keep the order in which they first appeared.
func countBy[T any](rows []T, key func(T) string) []Count {
	idx := make(map[string]int)
	var out []Count
	for _, r := range rows {
		k := key(r)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, Count{Name: k})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func topN(counts []Count, n int) []Count {
	if n <= 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

func countNames(counts []Count) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Name
	}
	return out
}

func countValues(counts []Count) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c.Count)
	}
	return out
}
