//go:build unix

package driver

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// crashSignals is the abort/fault set a process-wide signal handler
// watches for in addition to the cooperative SIGINT/SIGTERM shutdown
// path: SIGSEGV, SIGBUS, SIGFPE, SIGILL, SIGABRT. On most platforms a
// fault raised by Go code itself surfaces first as a runtime panic
// (recovered in runPredicate, not here); this path exists for faults
// raised by cgo or other non-Go code a predicate might call into.
func crashSignals() []os.Signal {
	return []os.Signal{
		syscall.Signal(unix.SIGSEGV),
		syscall.Signal(unix.SIGBUS),
		syscall.Signal(unix.SIGFPE),
		syscall.Signal(unix.SIGILL),
		syscall.Signal(unix.SIGABRT),
	}
}

// shutdownSignals is the cancellation set: SIGINT raises the failure flag
// without an artifact and the driver exits at the top of its next
// iteration, flushing final corpus state.
func shutdownSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM}
}

func notify(ch chan<- os.Signal, sig ...os.Signal) { signal.Notify(ch, sig...) }
