package app

import (
	"time"

	"github.com/iov-one/custody"
)

// logDuration writes the processing time and result of a transaction.
// Failures are errors on deliver and info on check, successes are info on
// deliver and debug on check.
func logDuration(ctx custody.Context, start time.Time, err error, lowPrio bool) {
	delta := time.Now().Sub(start)
	logger := custody.GetLogger(ctx).With("duration", delta/time.Microsecond)

	switch {
	case err != nil && lowPrio:
		logger.Info("tx rejected", "err", err)
	case err != nil:
		logger.Error("tx failed", "err", err)
	case lowPrio:
		logger.Debug("tx accepted")
	default:
		logger.Info("tx delivered")
	}
}
