// Package store owns the viewer state. Transforms are applied one at a time
// on a dedicated goroutine and the durable subset is persisted after a quiet
// period.
package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/promptpick/internal/selection"
	"github.com/temirov/promptpick/internal/types"
)

// DefaultQuietPeriod is the inactivity required before the state is saved.
const DefaultQuietPeriod = 500 * time.Millisecond

const (
	logMessageSaveFailed       = "failed to persist viewer state"
	logMessageDispatchAfterEnd = "dispatch after close ignored"
	logFieldSelected           = "selected"
	logFieldExpanded           = "expanded"
)

// Persister reads and writes the durable subset of the state.
type Persister interface {
	Load() types.SavedState
	Save(saved types.SavedState) error
}

// Options configures a Store.
type Options struct {
	// Persister receives debounced saves. Nil disables persistence.
	Persister Persister
	// QuietPeriod overrides DefaultQuietPeriod when positive.
	QuietPeriod time.Duration
	Logger      *zap.Logger
}

type pendingTransform struct {
	transform types.Transform
	result    chan types.ViewerState
}

// Store is the single owner of ViewerState.
type Store struct {
	logger      *zap.Logger
	persister   Persister
	quietPeriod time.Duration

	stateMutex sync.RWMutex
	state      types.ViewerState

	queueMutex sync.Mutex
	queue      []pendingTransform
	closed     bool
	wake       chan struct{}
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	saveMutex     sync.Mutex
	saveTimer     *time.Timer
	pendingWrites sync.WaitGroup
	writeMutex    sync.Mutex

	subscribersMutex sync.Mutex
	subscribers      []chan types.ViewerState
}

// New starts a Store holding the empty state.
func New(options Options) *Store {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	quietPeriod := options.QuietPeriod
	if quietPeriod <= 0 {
		quietPeriod = DefaultQuietPeriod
	}
	store := &Store{
		logger:      logger,
		persister:   options.Persister,
		quietPeriod: quietPeriod,
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	go store.run()
	return store
}

// Snapshot returns the latest settled state.
func (store *Store) Snapshot() types.ViewerState {
	store.stateMutex.RLock()
	defer store.stateMutex.RUnlock()
	return store.state
}

// LoadSaved returns the persisted selection and expansion, or an empty
// SavedState when nothing usable is stored.
func (store *Store) LoadSaved() types.SavedState {
	if store.persister == nil {
		return types.SavedState{SelectedPaths: []string{}, ExpandedNodes: []string{}}
	}
	return store.persister.Load()
}

// Dispatch queues transform behind every transform dispatched before it. The
// returned channel yields the state the transform produced, with Stats
// recomputed. After Close the transform is dropped and the channel yields the
// final state.
func (store *Store) Dispatch(transform types.Transform) <-chan types.ViewerState {
	result := make(chan types.ViewerState, 1)
	store.queueMutex.Lock()
	if store.closed {
		store.queueMutex.Unlock()
		store.logger.Debug(logMessageDispatchAfterEnd)
		result <- store.Snapshot()
		close(result)
		return result
	}
	store.queue = append(store.queue, pendingTransform{transform: transform, result: result})
	store.queueMutex.Unlock()

	select {
	case store.wake <- struct{}{}:
	default:
	}
	return result
}

// Apply dispatches transform and waits for its result.
func (store *Store) Apply(ctx context.Context, transform types.Transform) (types.ViewerState, error) {
	select {
	case state := <-store.Dispatch(transform):
		return state, nil
	case <-ctx.Done():
		return types.ViewerState{}, ctx.Err()
	}
}

// Subscribe returns a channel receiving each new state. A subscriber that
// falls behind only sees the latest state. The channel is closed by Close.
func (store *Store) Subscribe() <-chan types.ViewerState {
	subscription := make(chan types.ViewerState, 1)
	store.subscribersMutex.Lock()
	store.subscribers = append(store.subscribers, subscription)
	store.subscribersMutex.Unlock()
	return subscription
}

// Close applies every queued transform, stops the owner goroutine, writes a
// save that was still waiting for its quiet period and waits for a save that
// had already started.
func (store *Store) Close(ctx context.Context) error {
	store.queueMutex.Lock()
	store.closed = true
	store.queueMutex.Unlock()
	store.stopOnce.Do(func() { close(store.stop) })

	select {
	case <-store.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	store.saveMutex.Lock()
	pendingSave := store.saveTimer != nil && store.saveTimer.Stop()
	store.saveTimer = nil
	store.saveMutex.Unlock()
	if pendingSave {
		store.flushSave()
		store.pendingWrites.Done()
	}
	writesFinished := make(chan struct{})
	go func() {
		store.pendingWrites.Wait()
		close(writesFinished)
	}()
	select {
	case <-writesFinished:
	case <-ctx.Done():
		return ctx.Err()
	}

	store.subscribersMutex.Lock()
	for _, subscription := range store.subscribers {
		close(subscription)
	}
	store.subscribers = nil
	store.subscribersMutex.Unlock()
	return nil
}

func (store *Store) run() {
	defer close(store.done)
	for {
		select {
		case <-store.wake:
			store.drain()
		case <-store.stop:
			store.drain()
			return
		}
	}
}

func (store *Store) drain() {
	for {
		store.queueMutex.Lock()
		if len(store.queue) == 0 {
			store.queueMutex.Unlock()
			return
		}
		next := store.queue[0]
		store.queue[0] = pendingTransform{}
		store.queue = store.queue[1:]
		store.queueMutex.Unlock()
		store.apply(next)
	}
}

func (store *Store) apply(pending pendingTransform) {
	nextState := pending.transform(store.Snapshot())
	nextState.Stats = selection.DeriveStats(nextState)

	store.stateMutex.Lock()
	store.state = nextState
	store.stateMutex.Unlock()

	store.scheduleSave()
	store.publish(nextState)
	pending.result <- nextState
	close(pending.result)
}

func (store *Store) scheduleSave() {
	if store.persister == nil {
		return
	}
	store.saveMutex.Lock()
	defer store.saveMutex.Unlock()
	if store.saveTimer != nil && store.saveTimer.Stop() {
		store.pendingWrites.Done()
	}
	store.pendingWrites.Add(1)
	store.saveTimer = time.AfterFunc(store.quietPeriod, func() {
		defer store.pendingWrites.Done()
		store.flushSave()
	})
}

func (store *Store) flushSave() {
	store.writeMutex.Lock()
	defer store.writeMutex.Unlock()
	saved := types.SavedStateOf(store.Snapshot())
	if saveError := store.persister.Save(saved); saveError != nil {
		store.logger.Warn(logMessageSaveFailed,
			zap.Int(logFieldSelected, len(saved.SelectedPaths)),
			zap.Int(logFieldExpanded, len(saved.ExpandedNodes)),
			zap.Error(saveError))
	}
}

func (store *Store) publish(state types.ViewerState) {
	store.subscribersMutex.Lock()
	defer store.subscribersMutex.Unlock()
	for _, subscription := range store.subscribers {
		select {
		case subscription <- state:
			continue
		default:
		}
		select {
		case <-subscription:
		default:
		}
		select {
		case subscription <- state:
		default:
		}
	}
}
