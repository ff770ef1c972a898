package uvcam

import (
	"github.com/honulabs/uvcam/internal/logging"
)

var log = logging.DefaultLogger.WithTag("uvcam")
