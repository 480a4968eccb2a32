package repeatindex

// Strings keys each repeat of a byte index by its content.
func Strings(ix *Index[byte], report Report) map[string]int {
	counts := make(map[string]int, len(report))
	for _, r := range report {
		counts[string(ix.Substring(r))] = r.Count
	}
	return counts
}

// RuneStrings keys each repeat of a rune index by its content.
func RuneStrings(ix *Index[rune], report Report) map[string]int {
	counts := make(map[string]int, len(report))
	for _, r := range report {
		counts[string(ix.Substring(r))] = r.Count
	}
	return counts
}
