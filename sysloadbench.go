// Package sysloadbench benchmarks registered functions while recording
// wall-clock duration, CPU utilization and resident memory of the executing
// process tree. Every run happens in a freshly spawned worker process so GC
// state, globals and memory pressure never leak between runs.
//
// Functions are registered by name and resolved again inside the worker,
// which is this same binary re-executed. Call Init early in main, after all
// Register calls; in the parent it is a no-op, in a worker it runs the
// requested benchmark and exits.
package sysloadbench

import (
	"fmt"
	"os"
	"sync"
)

// workerEnv marks a process as a measurement worker. The run executor sets
// it when spawning; user code never does.
const workerEnv = "SYSLOADBENCH_WORKER"

// Func is a benchmarkable function. The same signature serves setup and
// prerun hooks. A non-nil error fails the round (or the run, for setup).
type Func func(p Params) error

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Func)
)

// Register makes fn resolvable under name, in the parent and in every
// worker. It panics on an empty name, a nil function or a duplicate name;
// registration is programmer wiring, not runtime input.
func Register(name string, fn Func) {
	if name == "" {
		panic("sysloadbench: Register with empty name")
	}
	if fn == nil {
		panic(fmt.Sprintf("sysloadbench: Register(%q) with nil function", name))
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("sysloadbench: Register called twice for %q", name))
	}
	registry[name] = fn
}

func lookup(name string) (Func, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[name]
	return fn, ok
}

// Init hands the process over to the worker loop when it was spawned as a
// measurement worker, and exits when the loop finishes; in a regular process
// it returns immediately. It must run after all Register calls and before
// any application work, typically first thing in main (or TestMain):
//
//	func main() {
//		sysloadbench.Register("bench.parse", parseBench)
//		sysloadbench.Init()
//		...
//	}
func Init() {
	if os.Getenv(workerEnv) == "" {
		return
	}
	os.Exit(runWorker())
}
