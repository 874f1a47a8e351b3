// Package archive implements the monthly budget archival and reset cycle:
// categories and expenses are copied into a dated snapshot, recurring
// categories get their budget zeroed, temporary categories and all live
// expenses are purged.
package archive

import (
	"fmt"
	"strconv"
	"strings"
)

// ID formats the canonical archive identifier for a period, e.g. "2026-08".
// Every write path goes through this one formatter: the source app computed
// the id in two places with different formats ("2026-08" from the scheduled
// job, "2026 - 08" from the admin action), which could land the same month
// under two keys. The spaced legacy form is accepted by ParseID for reads
// but never produced.
func ID(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseID parses an archive identifier into (year, month). It accepts the
// canonical "YYYY-MM" form and the legacy spaced "YYYY - MM" form.
func ParseID(id string) (year, month int, err error) {
	s := strings.ReplaceAll(id, " ", "")
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed archive id %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed archive id %q: %v", id, err)
	}
	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed archive id %q: %v", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("archive id %q: month out of range", id)
	}
	return year, month, nil
}
