package match

// Suggest returns the candidate closest to target, provided it is close enough
// to be a plausible typo: at most a third of the longer string differs.
func Suggest(target string, candidates []string) (string, bool) {
	best, ok := Rank(target, candidates).Best()
	if !ok {
		return "", false
	}

	if best.Distance > max(len(target), len(best.Name))/3 {
		return "", false
	}

	return best.Name, true
}
