package reports

import (
	"fmt"
	"strconv"

	"github.com/crashstack/crashstats-web/internal/models"
)

// BugsBySignature folds bug association rows into a signature-keyed map.
func BugsBySignature(hits []models.BugAssociation) map[string][]int {
	bugs := make(map[string][]int, len(hits))
	for _, hit := range hits {
		bugs[hit.Signature] = append(bugs[hit.Signature], hit.ID)
	}
	return bugs
}

// MergeBugAssociations appends matching bug ids to each crash row, creating
// the list when absent. A signature with no matching bugs is left untouched.
func MergeBugAssociations(crashes []models.TopCrasherRow, bugs map[string][]int) {
	for i := range crashes {
		if ids, ok := bugs[crashes[i].Signature]; ok {
			crashes[i].Bugs = append(crashes[i].Bugs, ids...)
		}
	}
}

// ChangeInRankNew is the sentinel for signatures absent from the previous
// window; such rows never enter the changer buckets.
const ChangeInRankNew = "new"

// ChangerBuckets buckets crash rows by their positive rank improvement.
// Rows from successive fetches interleave within a bucket in fetch order.
// A malformed rank delta is an upstream fault.
func ChangerBuckets(fetches ...[]models.TopCrasherRow) (map[int][]models.TopCrasherRow, error) {
	changers := make(map[int][]models.TopCrasherRow)
	for _, crashes := range fetches {
		for _, crash := range crashes {
			if crash.ChangeInRank == ChangeInRankNew {
				continue
			}
			change, err := strconv.Atoi(crash.ChangeInRank)
			if err != nil {
				return nil, fmt.Errorf("malformed changeInRank %q for %s: %w", crash.ChangeInRank, crash.Signature, err)
			}
			if change <= 0 {
				continue
			}
			changers[change] = append(changers[change], crash)
		}
	}
	return changers, nil
}
