package render

// Truncate shortens s to at most width runes, marking the cut with "...".
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width > 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}

// Window returns the first line to show so that selected stays visible in a
// pane of the given height over total lines, keeping it centered when possible.
func Window(selected, total, height int) int {
	if height <= 0 || total <= height {
		return 0
	}
	first := selected - height/2
	return min(max(first, 0), total-height)
}
