package report

// Selection is the ordered set of chart IDs included in a report. Order is
// user-controlled and significant; duplicates are never stored.
type Selection []string

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Add appends id to the end of the selection. Adding an already-selected id
// is a no-op and returns false.
func (s *Selection) Add(id string) bool {
	if id == "" || s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove drops id from the selection, preserving the order of the rest.
func (s *Selection) Remove(id string) bool {
	for i, v := range *s {
		if v == id {
			*s = append((*s)[:i], (*s)[i+1:]...)
			return true
		}
	}
	return false
}

// MoveTo repositions id at index, shifting the others. Out-of-range indices
// clamp to the ends; this models the result of a drag-reorder.
func (s *Selection) MoveTo(id string, index int) bool {
	cur := -1
	for i, v := range *s {
		if v == id {
			cur = i
			break
		}
	}
	if cur == -1 {
		return false
	}
	if index < 0 {
		index = 0
	}
	if index >= len(*s) {
		index = len(*s) - 1
	}
	if index == cur {
		return true
	}

	out := make(Selection, 0, len(*s))
	out = append(out, (*s)[:cur]...)
	out = append(out, (*s)[cur+1:]...)
	out = append(out[:index], append(Selection{id}, out[index:]...)...)
	*s = out
	return true
}

// Normalize removes duplicates and empty IDs in place, keeping first
// occurrences. Called after decoding persisted state.
func (s *Selection) Normalize() {
	seen := make(map[string]bool, len(*s))
	out := (*s)[:0]
	for _, id := range *s {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	*s = out
}
