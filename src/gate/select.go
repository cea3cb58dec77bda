package gate

// Filter returns the records built from ref on branch, in input order.
// Records without a head reference never match.
func Filter(records []BuildRecord, branch, ref string) []BuildRecord {
	var out []BuildRecord
	for _, r := range records {
		if r.HeadRef == "" {
			continue
		}
		if r.Branch != branch || r.HeadRef != ref {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Latest returns the record with the highest build number for target and
// config. ok is false when no record matches, which callers must treat as
// "never built" rather than "failed".
//
// Build numbers are unique per builder, so ties should not happen; if they
// do, the last one seen wins.
func Latest(records []BuildRecord, target, config string) (latest BuildRecord, ok bool) {
	for _, r := range records {
		if r.Target != target || r.Config != config {
			continue
		}
		if !ok || r.BuildNumber >= latest.BuildNumber {
			latest = r
			ok = true
		}
	}
	return latest, ok
}
