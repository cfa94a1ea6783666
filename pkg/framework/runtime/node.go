// Package runtime hosts a processing node whose DSP runtime is replaced from
// control goroutines while a real-time goroutine keeps calling Process.
package runtime

import (
	"sync/atomic"
	"time"

	"github.com/justyntemme/rtdsp/pkg/framework/debug"
	"github.com/justyntemme/rtdsp/pkg/lockfree"
)

// DefaultConfigureTimeout bounds how long Configure waits for the real-time
// side to adopt a previous configuration.
const DefaultConfigureTimeout = 100 * time.Millisecond

// DefaultReclaimCapacity is the number of replaced runtimes that may await
// reclamation.
const DefaultReclaimCapacity = lockfree.DefaultCapacity

// controlAttempts is how often a control operation tries the node flag.
const controlAttempts = 16

// Runtime is the DSP work a Node runs. Process must not block or allocate,
// and reports false when it could not handle the block.
type Runtime interface {
	Process(in, out [][]float32) bool
}

// Closer is implemented by runtimes holding resources that must be released
// once the real-time side can no longer see them.
type Closer interface {
	Close() error
}

// Node drives a Runtime through its lifecycle:
//
//	UNCONFIGURED -> CONFIGURED -> RUNNING -> STOPPING -> STOPPED -> RUNNING
//
// Configure, Start, Stop, Resume and Clear are control operations and are
// serialized by a flag; a call that cannot take it returns StatusBusy.
// Process is the real-time callback. The only transition it makes is
// acknowledging a stop.
type Node struct {
	state atomic.Int32
	flag  lockfree.Flag
	owner *lockfree.Owner[Runtime]
	valid atomic.Bool

	timeout time.Duration
	logger  *debug.Logger
	name    string
}

type nodeConfig struct {
	name     string
	logger   *debug.Logger
	capacity int
	timeout  time.Duration
}

// Option configures a Node.
type Option func(c *nodeConfig)

// WithName labels the node in log output.
func WithName(name string) Option {
	return func(c *nodeConfig) {
		c.name = name
	}
}

// WithLogger sets the control side logger.
func WithLogger(logger *debug.Logger) Option {
	return func(c *nodeConfig) {
		c.logger = logger
	}
}

// WithReclaimCapacity sets how many replaced runtimes may await reclamation.
func WithReclaimCapacity(n int) Option {
	return func(c *nodeConfig) {
		c.capacity = n
	}
}

// WithConfigureTimeout bounds Configure. Zero or less makes it try once.
func WithConfigureTimeout(d time.Duration) Option {
	return func(c *nodeConfig) {
		c.timeout = d
	}
}

// NewNode creates an unconfigured Node.
func NewNode(options ...Option) *Node {
	c := nodeConfig{
		name:     "node",
		capacity: DefaultReclaimCapacity,
		timeout:  DefaultConfigureTimeout,
	}
	for _, o := range options {
		o(&c)
	}

	n := &Node{
		timeout: c.timeout,
		logger:  c.logger,
		name:    c.name,
	}
	n.owner = lockfree.NewOwner[Runtime](
		lockfree.WithCapacity(c.capacity),
		lockfree.WithDisposer(n.dispose),
		lockfree.WithLogger(c.logger),
		lockfree.WithName(c.name),
	)
	return n
}

// State returns the current state.
func (n *Node) State() State {
	return State(n.state.Load())
}

// Configure builds a runtime and publishes it for the real-time side, which
// adopts it at the start of its next Process call. It is legal in every
// state except STOPPING; from UNCONFIGURED it moves to CONFIGURED. While the
// node is not RUNNING a runtime that was published but never adopted is
// replaced rather than waited on.
func (n *Node) Configure(build func() (Runtime, error)) lockfree.Status {
	g := lockfree.Acquire(&n.flag, controlAttempts)
	if !g.IsSet() {
		return lockfree.StatusBusy
	}
	defer g.Release()

	from := n.State()
	if from == StateStopping {
		return n.reject("configure", from)
	}

	// only RUNNING adopts pending runtimes, so elsewhere a newer one replaces it
	if from != StateRunning {
		n.owner.Discard()
	}

	status := n.owner.Construct(lockfree.After(n.timeout), build)
	if status != lockfree.StatusSuccess {
		n.logger.Warning().
			Str("node", n.name).
			Str("state", from.String()).
			Str("status", status.String()).
			Log("configure failed")
		return status
	}

	n.valid.Store(true)
	if from == StateUnconfigured && n.state.CompareAndSwap(int32(from), int32(StateConfigured)) {
		n.transition(from, StateConfigured)
	}
	return lockfree.StatusSuccess
}

// Start moves CONFIGURED to RUNNING.
func (n *Node) Start() lockfree.Status {
	return n.control("start", StateConfigured, StateRunning)
}

// Stop requests RUNNING to stop. The real-time side completes it with its
// next Process call.
func (n *Node) Stop() lockfree.Status {
	return n.control("stop", StateRunning, StateStopping)
}

// Resume moves STOPPED back to RUNNING when a valid runtime is present.
func (n *Node) Resume() lockfree.Status {
	g := lockfree.Acquire(&n.flag, controlAttempts)
	if !g.IsSet() {
		return lockfree.StatusBusy
	}
	defer g.Release()

	from := n.State()
	if from != StateStopped || !n.valid.Load() {
		return n.reject("resume", from)
	}
	if !n.state.CompareAndSwap(int32(StateStopped), int32(StateRunning)) {
		return n.reject("resume", n.State())
	}
	n.transition(from, StateRunning)
	return lockfree.StatusSuccess
}

// Clear invalidates the configured runtime. From CONFIGURED the node returns
// to UNCONFIGURED; from STOPPED it stays STOPPED but cannot Resume until it
// is configured again. A runtime that was never adopted is released at once;
// the adopted one on the next Configure or on Close, since the real-time side
// may still hold it.
func (n *Node) Clear() lockfree.Status {
	g := lockfree.Acquire(&n.flag, controlAttempts)
	if !g.IsSet() {
		return lockfree.StatusBusy
	}
	defer g.Release()

	from := n.State()
	switch from {
	case StateConfigured:
		if !n.state.CompareAndSwap(int32(from), int32(StateUnconfigured)) {
			return n.reject("clear", n.State())
		}
		n.valid.Store(false)
		n.transition(from, StateUnconfigured)
	case StateStopped:
		n.valid.Store(false)
		n.logger.Info().
			Str("node", n.name).
			Str("state", from.String()).
			Log("cleared")
	default:
		return n.reject("clear", from)
	}
	n.owner.Discard()
	n.owner.Cleanup()
	return lockfree.StatusSuccess
}

// Process is the real-time callback. It never blocks, allocates or logs.
//
// A pending stop is acknowledged first. Outside RUNNING it returns
// StatusNotRunning without touching out. Otherwise the newest published
// runtime is adopted and run; StatusFailure means there was none or it
// rejected the block.
func (n *Node) Process(in, out [][]float32) lockfree.Status {
	n.state.CompareAndSwap(int32(StateStopping), int32(StateStopped))
	if n.State() != StateRunning {
		return lockfree.StatusNotRunning
	}

	rt, ok := n.owner.Get()
	if !ok || rt == nil {
		return lockfree.StatusFailure
	}
	if !rt.Process(in, out) {
		return lockfree.StatusFailure
	}
	return lockfree.StatusSuccess
}

// Cleanup releases runtimes the real-time side has replaced. Control side
// only.
func (n *Node) Cleanup() int {
	return n.owner.Cleanup()
}

// Generation returns the generation of the runtime the real-time side is
// using, 0 if none.
func (n *Node) Generation() uint64 {
	return n.owner.Generation()
}

// Close releases every runtime the node holds. No other goroutine may use
// the node afterwards.
func (n *Node) Close() {
	n.owner.Close()
	n.valid.Store(false)
	n.logger.Debug().
		Str("node", n.name).
		Uint64("published", n.owner.Published()).
		Log("closed")
}

func (n *Node) control(op string, from, to State) lockfree.Status {
	g := lockfree.Acquire(&n.flag, controlAttempts)
	if !g.IsSet() {
		return lockfree.StatusBusy
	}
	defer g.Release()

	if !n.state.CompareAndSwap(int32(from), int32(to)) {
		return n.reject(op, n.State())
	}
	n.transition(from, to)
	return lockfree.StatusSuccess
}

func (n *Node) transition(from, to State) {
	n.logger.Info().
		Str("node", n.name).
		Str("from", from.String()).
		Str("to", to.String()).
		Log("transition")
}

func (n *Node) reject(op string, state State) lockfree.Status {
	n.logger.Debug().
		Str("node", n.name).
		Str("op", op).
		Str("state", state.String()).
		Log("illegal transition")
	return lockfree.StatusFailure
}

func (n *Node) dispose(rt Runtime) {
	c, ok := rt.(Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		n.logger.Err().
			Str("node", n.name).
			Err(err).
			Log("runtime close failed")
	}
}
