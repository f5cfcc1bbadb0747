// Package idgen generates identifiers for simulation objects.
package idgen

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var (
	generatorMutex        sync.Mutex
	generatorInstantiated bool
	generator             Generator
)

// Generator produces unique identifiers.
type Generator interface {
	Generate() string
}

// NewSequential returns a generator whose IDs are "1", "2", "3", ... The
// sequence is deterministic as long as IDs are requested from one goroutine.
func NewSequential() Generator {
	return &sequentialGenerator{}
}

// NewParallel returns a generator that is safe to share between goroutines
// but whose IDs are not reproducible.
func NewParallel() Generator {
	return parallelGenerator{}
}

// UseSequential configures the process-wide generator to be sequential.
func UseSequential() {
	use(NewSequential())
}

// UseParallel configures the process-wide generator to be backed by xid.
func UseParallel() {
	use(NewParallel())
}

func use(g Generator) {
	generatorMutex.Lock()
	defer generatorMutex.Unlock()

	if generatorInstantiated {
		log.Panic("cannot change id generator type after using it")
	}

	generator = g
	generatorInstantiated = true
}

// Get returns the process-wide generator, defaulting to a sequential one.
func Get() Generator {
	generatorMutex.Lock()
	defer generatorMutex.Unlock()

	if !generatorInstantiated {
		generator = NewSequential()
		generatorInstantiated = true
	}

	return generator
}

type sequentialGenerator struct {
	next uint64
}

func (g *sequentialGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1), 10)
}

type parallelGenerator struct{}

func (parallelGenerator) Generate() string {
	return xid.New().String()
}
