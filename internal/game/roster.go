package game

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

// Palette is the fixed set of target colours. A participant's colour is
// chosen by the index of the first occurrence of its name.
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
	"#F8B500", "#FF6F61", "#6B5B95", "#88B04B", "#F7CAC9",
	"#92A8D1", "#955251", "#B565A7", "#009B77", "#DD4124",
}

// Participant is one entry on the sidebar. Duplicated names are independent
// entries that share a colour.
type Participant struct {
	Name       string `json:"name"`
	ColorIndex int    `json:"color_index"`
	Color      string `json:"color"`
	Alive      bool   `json:"alive"`
}

var shorthandPattern = regexp.MustCompile(`^(.+)\*(\d+)$`)

// ParseNames splits free text on commas and newlines and expands "name*count"
// shorthand. Expansion stops with ErrTooManyParticipants once more than limit
// names have been produced; a limit of zero or less disables the check.
func ParseNames(text string, limit int) ([]string, error) {
	var names []string
	items := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '\n' })

	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, count := item, 1
		if m := shorthandPattern.FindStringSubmatch(item); m != nil {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				// digits that overflow an int can only mean "too many"
				return nil, ErrTooManyParticipants
			}
			name, count = strings.TrimSpace(m[1]), n
		}

		for i := 0; i < count; i++ {
			if limit > 0 && len(names) >= limit {
				return nil, ErrTooManyParticipants
			}
			names = append(names, name)
		}
	}
	return names, nil
}

// NewParticipants builds the sidebar roster in input order.
func NewParticipants(names []string) []Participant {
	first := make(map[string]int, len(names))
	out := make([]Participant, len(names))
	for i, name := range names {
		idx, seen := first[name]
		if !seen {
			idx = i
			first[name] = i
		}
		ci := idx % len(Palette)
		out[i] = Participant{Name: name, ColorIndex: ci, Color: Palette[ci], Alive: true}
	}
	return out
}

// Shuffle returns a uniformly random permutation of 0..n-1.
func Shuffle(n int, rng *rand.Rand) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}
