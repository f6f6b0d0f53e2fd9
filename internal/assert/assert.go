package assert

import (
	"log"
	"runtime/debug"
)

/* Assert aborts the process when an internal invariant does not hold. It
 * is not for validating input. */
func Assert(b bool) {
	Printf(b, "assertion failed\n")
}

func Printf(b bool, format string, a ...interface{}) {
	if !b {
		log.Printf("%s", debug.Stack())
		log.Fatalf(format, a...)
	}
}
