// Package repos contains the GORM-backed persistence layer. Every repo
// accepts a dbctx.Context so callers can pass an explicit transaction; when
// none is supplied the repo falls back to its own connection.
package repos

import "gorm.io/gorm/clause"

func onConflictDoNothing() clause.OnConflict {
	return clause.OnConflict{DoNothing: true}
}
