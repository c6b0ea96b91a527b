// Package emboss wraps locally installed EMBOSS-style programs: it builds
// their command lines from parameter maps and runs them as subprocesses.
// It is the local counterpart to the remote analysis client for sites that
// have the tool suite on the host.
package emboss

import (
	"fmt"
	"sort"
)

// BuildCommandLine renders a parameter map as an EMBOSS-style argv,
// starting with the program name. Qualifiers are emitted in sorted order
// so command lines are stable. Booleans become bare "-name" flags when
// true and are omitted when false; slices repeat the qualifier per
// element; everything else is "-name value".
func BuildCommandLine(program string, params map[string]any) []string {
	argv := []string{program}
	for _, name := range sortedKeys(params) {
		switch v := params[name].(type) {
		case bool:
			if v {
				argv = append(argv, "-"+name)
			}
		case []string:
			for _, item := range v {
				argv = append(argv, "-"+name, item)
			}
		case nil:
			// Skip unset qualifiers.
		default:
			argv = append(argv, "-"+name, fmt.Sprintf("%v", v))
		}
	}
	return argv
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
