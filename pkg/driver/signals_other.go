//go:build !unix

package driver

import (
	"os"
	"os/signal"
)

// crashSignals has no portable equivalent outside unix; fault detection
// on these platforms relies entirely on runPredicate's panic recovery.
func crashSignals() []os.Signal { return nil }

func shutdownSignals() []os.Signal { return []os.Signal{os.Interrupt} }

func notify(ch chan<- os.Signal, sig ...os.Signal) { signal.Notify(ch, sig...) }
