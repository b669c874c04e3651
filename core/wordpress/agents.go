package wordpress

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAgentMap parses "crmID:siteID,crmID:siteID" into a lookup table.
func ParseAgentMap(raw string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		crmID, siteID, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("agent map entry %q: missing ':'", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(siteID))
		if err != nil {
			return nil, fmt.Errorf("agent map entry %q: %w", pair, err)
		}
		out[strings.TrimSpace(crmID)] = id
	}
	return out, nil
}
