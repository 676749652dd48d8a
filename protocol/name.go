package protocol

// ValidName reports whether name is legal as a tube name: non-empty,
// starting with an ASCII letter or one of `+ / ; . $ _ ( )`, continuing
// with those or `-`.
//
// The encoder never calls this. Validation is for callers that want to
// reject a bad name before it reaches the wire and comes back as
// BAD_FORMAT.
func ValidName(name string) bool {
	if name == "" {
		return false
	}

	if !isNameStart(name[0]) {
		return false
	}

	for i := 1; i < len(name); i++ {
		if name[i] != '-' && !isNameStart(name[i]) {
			return false
		}
	}

	return true
}

func isNameStart(c byte) bool {
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return true
	}

	switch c {
	case '+', '/', ';', '.', '$', '_', '(', ')':
		return true
	}

	return false
}
