package visualize

func encloseIfNotEmpty(open, s, close string) string {
	if s == "" {
		return ""
	}
	return open + s + close
}
