// Package reactions aggregates raw per-user reaction rows into the grouped
// form the API returns. The server shapes responses with Group; the client
// feed coordinator uses Toggle to recompute the same shape optimistically, so
// the two must stay in lockstep.
package reactions

// Row is one raw (emoji, user) reaction row for a message.
type Row struct {
	Emoji  string `json:"emoji"`
	UserID string `json:"user_id"`
}

// Grouped is the aggregated view of all rows sharing an emoji.
type Grouped struct {
	Emoji         string `json:"emoji"`
	Count         int    `json:"count"`
	ReactedByUser bool   `json:"reacted_by_user"`
}

// Group folds raw rows into grouped counts, preserving first-seen emoji
// order. ReactedByUser is set iff the viewer contributed one of the rows.
func Group(viewerID string, rows []Row) []Grouped {
	groups := make([]Grouped, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, row := range rows {
		if i, ok := index[row.Emoji]; ok {
			groups[i].Count++
			if row.UserID == viewerID {
				groups[i].ReactedByUser = true
			}
			continue
		}
		index[row.Emoji] = len(groups)
		groups = append(groups, Grouped{
			Emoji:         row.Emoji,
			Count:         1,
			ReactedByUser: row.UserID == viewerID,
		})
	}

	return groups
}

// Toggle recomputes a grouped list after the viewer toggles emoji. If a group
// for the emoji exists its count is decremented (and the group dropped at
// zero); otherwise a new single-count group is appended with the viewer flag
// set. The input slice is not modified.
func Toggle(groups []Grouped, emoji string) []Grouped {
	for i, g := range groups {
		if g.Emoji != emoji {
			continue
		}

		next := g.Count - 1
		if next <= 0 {
			out := make([]Grouped, 0, len(groups)-1)
			out = append(out, groups[:i]...)
			out = append(out, groups[i+1:]...)
			return out
		}

		out := make([]Grouped, len(groups))
		copy(out, groups)
		out[i].Count = next
		out[i].ReactedByUser = false
		return out
	}

	out := make([]Grouped, len(groups), len(groups)+1)
	copy(out, groups)
	return append(out, Grouped{Emoji: emoji, Count: 1, ReactedByUser: true})
}
