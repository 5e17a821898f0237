package domain

import "sort"

// stepValue resolves a sparse year-keyed schedule to its effective
// value: the value at the greatest key at or before year. When year
// precedes every key the value at the smallest key is returned; a
// schedule is not assumed to start coverage at year 0. Returns false
// only for an empty schedule.
func stepValue[V any](schedule map[int]V, year int) (V, bool) {
	var zero V
	if len(schedule) == 0 {
		return zero, false
	}
	keys := make([]int, 0, len(schedule))
	for k := range schedule {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	idx := sort.SearchInts(keys, year+1) - 1
	if idx < 0 {
		idx = 0
	}
	return schedule[keys[idx]], true
}
