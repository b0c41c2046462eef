package reactions

import (
	"reflect"
	"testing"
)

func TestGroup(t *testing.T) {
	tests := []struct {
		name     string
		viewerID string
		rows     []Row
		want     []Grouped
	}{
		{
			name:     "Empty rows",
			viewerID: "u1",
			rows:     nil,
			want:     []Grouped{},
		},
		{
			name:     "Single reaction by viewer",
			viewerID: "u1",
			rows:     []Row{{Emoji: "👍", UserID: "u1"}},
			want:     []Grouped{{Emoji: "👍", Count: 1, ReactedByUser: true}},
		},
		{
			name:     "Counts per emoji with viewer flag",
			viewerID: "u2",
			rows: []Row{
				{Emoji: "👍", UserID: "u1"},
				{Emoji: "🎉", UserID: "u2"},
				{Emoji: "👍", UserID: "u3"},
				{Emoji: "👍", UserID: "u2"},
			},
			want: []Grouped{
				{Emoji: "👍", Count: 3, ReactedByUser: true},
				{Emoji: "🎉", Count: 1, ReactedByUser: true},
			},
		},
		{
			name:     "Viewer reacted to none",
			viewerID: "u9",
			rows: []Row{
				{Emoji: "👀", UserID: "u1"},
				{Emoji: "👀", UserID: "u2"},
			},
			want: []Grouped{{Emoji: "👀", Count: 2, ReactedByUser: false}},
		},
		{
			name:     "First seen emoji order preserved",
			viewerID: "u1",
			rows: []Row{
				{Emoji: "🎉", UserID: "u2"},
				{Emoji: "👍", UserID: "u3"},
				{Emoji: "🎉", UserID: "u4"},
			},
			want: []Grouped{
				{Emoji: "🎉", Count: 2, ReactedByUser: false},
				{Emoji: "👍", Count: 1, ReactedByUser: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Group(tt.viewerID, tt.rows)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Group() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name   string
		groups []Grouped
		emoji  string
		want   []Grouped
	}{
		{
			name:   "Add new emoji group",
			groups: []Grouped{{Emoji: "👍", Count: 2, ReactedByUser: false}},
			emoji:  "🎉",
			want: []Grouped{
				{Emoji: "👍", Count: 2, ReactedByUser: false},
				{Emoji: "🎉", Count: 1, ReactedByUser: true},
			},
		},
		{
			name:   "Decrement existing group",
			groups: []Grouped{{Emoji: "👍", Count: 2, ReactedByUser: true}},
			emoji:  "👍",
			want:   []Grouped{{Emoji: "👍", Count: 1, ReactedByUser: false}},
		},
		{
			name:   "Remove group at zero",
			groups: []Grouped{{Emoji: "👍", Count: 1, ReactedByUser: true}},
			emoji:  "👍",
			want:   []Grouped{},
		},
		{
			name:   "Empty input adds group",
			groups: nil,
			emoji:  "👀",
			want:   []Grouped{{Emoji: "👀", Count: 1, ReactedByUser: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Toggle(tt.groups, tt.emoji)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Toggle() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Toggling the same emoji twice must return to the starting value, because
// the optimistic client recompute has to agree with the server's
// insert-then-delete round trip.
func TestToggleTwiceIsIdentity(t *testing.T) {
	starts := [][]Grouped{
		nil,
		{{Emoji: "👍", Count: 3, ReactedByUser: false}},
		{
			{Emoji: "👍", Count: 1, ReactedByUser: false},
			{Emoji: "🎉", Count: 2, ReactedByUser: true},
		},
	}

	for _, start := range starts {
		once := Toggle(start, "🔥")
		twice := Toggle(once, "🔥")

		want := start
		if want == nil {
			want = []Grouped{}
		}
		if !reflect.DeepEqual(twice, want) {
			t.Errorf("double toggle changed groups: start %v, got %v", start, twice)
		}
	}
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	groups := []Grouped{{Emoji: "👍", Count: 2, ReactedByUser: true}}
	_ = Toggle(groups, "👍")

	if groups[0].Count != 2 || !groups[0].ReactedByUser {
		t.Errorf("Toggle mutated its input: %v", groups)
	}
}
