package helper

// ShortID returns the first n characters of s, or all of s when it is
// shorter than n. Used to derive placeholder identifiers from opaque ids.
func ShortID(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
