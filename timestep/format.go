package timestep

import "strings"

// translateStrftime maps the small set of strftime directives spec.md's
// date_format examples use (e.g. "%Y-%m-%d") onto a Go reference-time
// layout. Only the directives needed for a linear day-stepped sequence are
// supported — this is intentionally not a general strftime implementation,
// since full calendar/locale-aware date parsing is out of scope for the
// engine (spec.md §1 names "date/timestep parsing" as an external concern).
func translateStrftime(format string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%M", "04",
		"%S", "05",
	)
	return replacer.Replace(format)
}
