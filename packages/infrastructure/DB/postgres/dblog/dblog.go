// Logging of the postgres module (/packages/infrastructure/DB/postgres)
package dblog

import "flashauction/packages/common/logger"

var (
	Logger    = logger.NewSource("DATABASE", logger.Default)
	Migration = logger.NewSource("MIGRATION", logger.Default)
)
