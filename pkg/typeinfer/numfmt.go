package typeinfer

// FormatFloatLiteral renders a float literal as a Rust literal with
// suffix, defaulting to f64. The author's verbatim digit run is kept —
// including `_` separators, which Rust accepts too — so a literal like
// "99.99" can never pick up a binary-rounding artifact on the way out.
func FormatFloatLiteral(raw, suffix string) string {
	if suffix != "" {
		return raw + suffix
	}
	return raw + "_f64"
}

// FormatIntegerLiteral renders an integer literal's verbatim digits with
// its suffix, defaulting to i32 when none is given.
func FormatIntegerLiteral(raw, suffix string) string {
	if suffix != "" {
		return raw + suffix
	}
	return raw + "_i32"
}
