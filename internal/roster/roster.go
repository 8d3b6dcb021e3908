// Package roster gates chat access against the employee name list.
package roster

import "strings"

var spaceStripper = strings.NewReplacer(" ", "", "　", "")

// Normalize removes ASCII and full-width spaces from a name.
func Normalize(name string) string {
	return spaceStripper.Replace(name)
}

// IsValidName reports whether claimed matches a roster entry after normalization.
// An empty roster cannot be checked and always allows entry.
func IsValidName(claimed string, roster []string) bool {
	if len(roster) == 0 {
		return true
	}
	want := Normalize(claimed)
	for _, entry := range roster {
		if Normalize(entry) == want {
			return true
		}
	}
	return false
}
