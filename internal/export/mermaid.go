package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arborist-dev/chopper/internal/chopper"
)

// GenerateMermaid produces a Mermaid graph TD diagram from a chop result:
// one subgraph per returned sub-program, one node per member it contains.
func GenerateMermaid(res *chopper.Result) string {
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(key string) string {
		if id, ok := nodeIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[key] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, p := range res.Programs {
		members := memberNames(p)
		sort.Strings(members)

		subKey := fmt.Sprintf("sub_%d", i)
		sb.WriteString(fmt.Sprintf("  subgraph %s[\"sub-program %d\"]\n", getID(subKey), i))
		for _, member := range members {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", getID(fmt.Sprintf("%d:%s", i, member)), member))
		}
		sb.WriteString("  end\n")
	}

	return sb.String()
}
