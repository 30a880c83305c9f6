package preview

import (
	"fmt"
	"os"
)

// Debug enables progress logging to stderr.
var Debug = false

func debugf(format string, args ...any) {
	if !Debug {
		return
	}
	fmt.Fprintf(os.Stderr, "lpreview: "+format+"\n", args...)
}
