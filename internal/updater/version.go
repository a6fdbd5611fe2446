package updater

import (
	"strconv"
	"strings"
)

// CompareVersions compares dotted numeric versions like "1.4.2".
// Returns -1 when a < b, 1 when a > b, 0 when equal. Missing trailing
// segments count as zero; malformed segments make the versions compare
// equal so a bad manifest never forces an update.
func CompareVersions(a, b string) int {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, ok := segment(as, i)
		if !ok {
			return 0
		}
		bv, ok := segment(bs, i)
		if !ok {
			return 0
		}
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

func segment(parts []string, i int) (int, bool) {
	if i >= len(parts) {
		return 0, true
	}
	s := strings.TrimSpace(parts[i])
	if s == "" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
