package metrics

import (
	"errors"

	"github.com/AccelByte/extend-khetscore-simulation/pkg/errs"
)

// ObserveError increments the counter matching err's kind. Errors outside
// the validation and persistence taxonomy are ignored.
func ObserveError(err error) {
	if err == nil {
		return
	}

	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		kind := verr.Field
		if kind == "" {
			kind = "unknown"
		}
		ValidationErrors.WithLabelValues(kind).Inc()
		return
	}

	var perr *errs.PersistenceError
	if errors.As(err, &perr) {
		PersistenceErrors.WithLabelValues(perr.Op).Inc()
	}
}
