package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// recomputeRatingSQL rebuilds titles.rating from the full current review set.
// AVG over zero rows is NULL, which is exactly "no rating".
const recomputeRatingSQL = `UPDATE titles
SET rating = (SELECT CAST(AVG(score) AS DOUBLE PRECISION) FROM reviews WHERE reviews.title_id = titles.id)
WHERE id = ?`

// recomputeRating must run on the same transaction that changed the reviews
// of titleID so the row change and the derived rating commit together.
func recomputeRating(tx *gorm.DB, titleID int64) error {
	if err := tx.Exec(recomputeRatingSQL, titleID).Error; err != nil {
		return fmt.Errorf("recompute rating for title %d: %w", titleID, err)
	}
	return nil
}

func recomputeRatings(tx *gorm.DB, titleIDs []int64) error {
	for _, id := range titleIDs {
		if err := recomputeRating(tx, id); err != nil {
			return err
		}
	}
	return nil
}
