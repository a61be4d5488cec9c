package hooking

import (
	"log"
)

// LogHookBase provides the common logic for hooks that write what they see
// into a logger.
type LogHookBase struct {
	*log.Logger
}
