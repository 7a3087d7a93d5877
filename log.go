package sqlrender

import (
	"github.com/rs/zerolog"

	"github.com/zoobzio/sqlrender/internal/logging"
)

// SetLogger replaces the logger used for diagnostics. Rendering failures,
// dialect registration and bind-time coercions are logged at debug level.
func SetLogger(l zerolog.Logger) {
	logging.Set(l)
}
