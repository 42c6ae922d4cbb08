package mapper

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// SortVersions orders version ids in semantic-version order when every
// id parses as one (tolerating a bare "1.0" lacking the "v" prefix
// golang.org/x/mod/semver requires); otherwise falls back to a stable
// lexical sort so list_versions never panics on non-semver branch names.
func SortVersions(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)

	allSemver := true
	for _, id := range out {
		if !semver.IsValid(canonicalize(id)) {
			allSemver = false
			break
		}
	}

	if allSemver {
		sort.SliceStable(out, func(i, j int) bool {
			return semver.Compare(canonicalize(out[i]), canonicalize(out[j])) < 0
		})
		return out
	}

	sort.Strings(out)
	return out
}

// canonicalize prefixes a bare version id ("1.0", "1.10") with "v" and pads
// it to at least major.minor so golang.org/x/mod/semver recognizes it.
func canonicalize(id string) string {
	v := id
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if strings.Count(v, ".") == 0 {
		v += ".0"
	}
	return v
}
