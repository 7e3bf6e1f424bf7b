package lifecycle

import (
	"fmt"

	"gorm.io/gorm"
)

// tryClaim is the exclusive-assignment primitive shared by chef-to-order
// and staff-to-request claims. One conditional write sets the claim
// columns only while the claim column is empty (or already the
// claimant's, so retries pass) and the status is still eligible. Two
// actors racing for the same record: the store applies one write first,
// the second finds the predicate gone and matches nothing. No read
// happens before the write, so there is no window to race through.
func tryClaim(tx *gorm.DB, model interface{}, recordID uint, claimColumn string, claimantID uint, eligible interface{}, set map[string]interface{}) (int64, error) {
	predicate := fmt.Sprintf("id = ? AND status IN ? AND (%s IS NULL OR %s = ?)", claimColumn, claimColumn)
	res := tx.Model(model).
		Where(predicate, recordID, eligible, claimantID).
		Updates(set)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
