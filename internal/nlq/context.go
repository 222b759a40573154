package nlq

// MergeContext fills entities missing from the current turn with values
// from the previous turn's SessionContext and returns the context to
// persist for the next turn. Help turns neither read nor write context:
// the previous context is returned untouched and the parse is left alone.
//
// Only locations and years inherit; cover types are considered part of
// the question being asked, not of the conversational subject. The
// returned context always reflects this turn's final entity set, whether
// or not inheritance happened, giving a sliding window of the most
// recently mentioned entities.
func MergeContext(parsed *ParsedQuery, prev SessionContext) SessionContext {
	if parsed.Intent == IntentHelp {
		return prev
	}

	if len(parsed.Locations) == 0 && len(prev.Locations) > 0 {
		parsed.Locations = append([]string(nil), prev.Locations...)
		parsed.Inherited = append(parsed.Inherited, "locations")
	}
	if len(parsed.Years) == 0 && len(prev.Years) > 0 {
		parsed.Years = append([]int(nil), prev.Years...)
		parsed.Inherited = append(parsed.Inherited, "years")
	}

	return SessionContext{
		Locations:  append([]string(nil), parsed.Locations...),
		CoverTypes: append([]string(nil), parsed.CoverTypes...),
		Years:      append([]int(nil), parsed.Years...),
	}
}
