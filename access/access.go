// Package access exposes one query facade per entity family. Facades are
// the only surface request handlers talk to: they pin a registry snapshot
// per call, record lookup metrics, and return the family's public contract
// (entity, or a not-found / malformed-key error) without ever leaking raw
// index state.
package access

import (
	"errors"

	"caravan/core"
	"caravan/metrics"
	"caravan/registry"
)

// observe records the outcome of one lookup against a family.
func observe(family core.Family, err error) {
	metrics.Lookups.WithLabelValues(string(family), outcome(err)).Inc()
}

func outcome(err error) string {
	var malformed *core.MalformedKeyError
	switch {
	case err == nil:
		return metrics.OutcomeHit
	case errors.As(err, &malformed):
		return metrics.OutcomeMalformed
	case registry.IsNotFound(err):
		return metrics.OutcomeMiss
	default:
		return metrics.OutcomeMiss
	}
}
