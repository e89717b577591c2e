package charts

// LegendEntry is one row of the multi-series legend.
type LegendEntry struct {
	Subject    string
	Color      string
	ColorIndex int
}

// BuildLegend lists the selected subjects in numeric order with their
// session colors. The order never depends on the order of selection.
func BuildLegend(selection Selection, colors *ColorMap) []LegendEntry {
	ids := selection.IDs()
	entries := make([]LegendEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, LegendEntry{
			Subject:    id,
			Color:      colors.ColorOf(id),
			ColorIndex: colors.Index(id),
		})
	}
	return entries
}
