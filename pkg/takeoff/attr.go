package takeoff

import (
	"github.com/charmbracelet/log"

	"github.com/tmengistu/stratum/pkg/model"
)

// ReadAttribute fetches a named attribute from a model entity, falling
// back to def when the attribute is absent, empty, or the read errors.
//
// This is the uniform safe-attribute policy for everything read from
// host entities: no error ever escapes, and failures are logged with
// the attribute key so missing values can be traced.
func ReadAttribute(e model.Entity, key, def string, logger *log.Logger) string {
	v, err := e.Attribute(key)
	if err != nil {
		logger.Warn("failed to read attribute", "key", key, "entity", e.ID(), "err", err)
		return def
	}
	if v == "" {
		return def
	}
	return v
}
