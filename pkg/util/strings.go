package util

func ContainsString(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}

	return false
}

// StringsIntersect reports whether two string slices share any element.
func StringsIntersect(a []string, b []string) bool {
	present := make(map[string]bool, len(a))
	for _, item := range a {
		present[item] = true
	}

	for _, item := range b {
		if present[item] {
			return true
		}
	}

	return false
}

func TrimString(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return s[:length]
}
