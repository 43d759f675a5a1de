package manager

import (
	"fmt"
	"strings"
)

// ResolveUniqueName produces a display name not present in existing by
// probing "base", "base (1)", "base (2)", ... with the original extension
// re-appended. An already-unique candidate is returned unchanged, so no two
// records visible in the registry ever share a name regardless of what the
// backend guarantees.
func ResolveUniqueName(candidate string, existing map[string]struct{}) string {
	base := candidate
	ext := ""
	if i := strings.LastIndex(candidate, "."); i >= 0 {
		base = candidate[:i]
		ext = candidate[i:]
	}

	name := candidate
	for count := 1; ; count++ {
		if _, taken := existing[name]; !taken {
			return name
		}
		name = fmt.Sprintf("%s (%d)%s", base, count, ext)
	}
}
