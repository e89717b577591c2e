package charts

import (
	"sort"
	"strconv"
	"strings"
)

// SeriesPalette is Paul Tol's qualitative color palette, designed for colorblind accessibility.
// See: https://personal.sron.nl/~pault/
var SeriesPalette = []string{
	"#4477AA", // Blue
	"#EE6677", // Rose
	"#228833", // Green
	"#CCBB44", // Olive/Yellow
	"#66CCEE", // Cyan
	"#AA3377", // Purple
	"#BBBBBB", // Grey
	"#EE8866", // Orange
	"#44BB99", // Teal
	"#FFAABB", // Pink
}

// SeriesColor returns the color for a given series index, cycling through the palette.
func SeriesColor(index int) string {
	if index < 0 {
		index = -index
	}
	return SeriesPalette[index%len(SeriesPalette)]
}

// splitSubject splits an identifier such as "S12" into its prefix and
// integer part. ok is false when the identifier has no trailing digits.
func splitSubject(id string) (prefix string, n uint64, ok bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return id, 0, false
	}
	n, err := strconv.ParseUint(id[i:], 10, 64)
	if err != nil {
		return id, 0, false
	}
	return id[:i], n, true
}

// SubjectLess orders subject identifiers by prefix and then by their
// integer part, so "S2" sorts before "S10". Identifiers without a numeric
// suffix sort after numbered ones, lexically.
func SubjectLess(a, b string) bool {
	pa, na, oka := splitSubject(a)
	pb, nb, okb := splitSubject(b)
	switch {
	case oka && !okb:
		return true
	case !oka && okb:
		return false
	case !oka && !okb:
		return a < b
	}
	if pa != pb {
		return strings.Compare(pa, pb) < 0
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

// SortSubjects sorts ids in place using SubjectLess.
func SortSubjects(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return SubjectLess(ids[i], ids[j])
	})
}

// ColorMap assigns each subject a palette slot for the lifetime of a session.
type ColorMap struct {
	slots map[string]int
}

// NewColorMap assigns palette slots to subjects in numeric order.
func NewColorMap(subjects []string) *ColorMap {
	c := &ColorMap{slots: make(map[string]int)}
	c.Extend(subjects)
	return c
}

// Extend gives subjects not seen before the next free slots, in numeric
// order among themselves. Existing assignments never change.
func (c *ColorMap) Extend(subjects []string) {
	fresh := make([]string, 0, len(subjects))
	for _, id := range subjects {
		if _, ok := c.slots[id]; !ok && id != "" {
			fresh = append(fresh, id)
		}
	}
	SortSubjects(fresh)
	for _, id := range fresh {
		if _, ok := c.slots[id]; ok {
			continue
		}
		c.slots[id] = len(c.slots)
	}
}

// Index returns the palette slot of subject, or -1 when it is unknown.
func (c *ColorMap) Index(subject string) int {
	if i, ok := c.slots[subject]; ok {
		return i
	}
	return -1
}

// ColorOf returns the color of subject. Unknown subjects get the first
// palette color.
func (c *ColorMap) ColorOf(subject string) string {
	i := c.Index(subject)
	if i < 0 {
		return SeriesPalette[0]
	}
	return SeriesColor(i)
}

// Len returns the number of subjects with an assigned color.
func (c *ColorMap) Len() int {
	return len(c.slots)
}
