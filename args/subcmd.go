package args

import "slices"

// FindSubcmd returns the first argument that equals one of E's tags.
// Matching is case-sensitive and looks at every argument, option values
// included: in "--name build test" it returns "build" although that is the
// value of --name, and ParseMerged then skips "test" as the subcommand.
// Avoid tags that are also plausible option values.
func FindSubcmd[E Enum](args []string) (E, bool) {
	var zero E
	tags := zero.Tags()
	for _, arg := range args {
		if slices.Contains(tags, arg) {
			return E(arg), true
		}
	}
	return zero, false
}
