package content

import (
	"context"
	"errors"
	"sinemagic_server/mirror"

	"github.com/MonkyMars/gecho"
)

// ConflictPolicy decides how a remote snapshot combines with the
// in-memory value of one entity.
type ConflictPolicy int

const (
	// RemoteMergesOver overlays remote entries on memory, remote winning
	// per key.
	RemoteMergesOver ConflictPolicy = iota
	// RemoteWinsWhenNonEmpty replaces memory only when the remote holds
	// at least one record. An empty remote is left to the caller to seed.
	RemoteWinsWhenNonEmpty
	// RemoteReplaces always replaces memory with the remote snapshot.
	RemoteReplaces
)

func (p ConflictPolicy) String() string {
	switch p {
	case RemoteMergesOver:
		return "remote-merges-over"
	case RemoteWinsWhenNonEmpty:
		return "remote-wins-when-non-empty"
	case RemoteReplaces:
		return "remote-replaces"
	}
	return "unknown"
}

// LocalRepository reads and writes one mirror key as JSON.
type LocalRepository[T any] struct {
	store  mirror.Store
	key    string
	logger *gecho.Logger
}

func NewLocalRepository[T any](store mirror.Store, key string, logger *gecho.Logger) *LocalRepository[T] {
	return &LocalRepository[T]{store: store, key: key, logger: logger}
}

// Load returns the stored value. Malformed JSON is logged and reported as
// absent.
func (r *LocalRepository[T]) Load(ctx context.Context) (T, bool) {
	var zero T
	value, err := mirror.GetJSON[T](ctx, r.store, r.key)
	if err != nil {
		if errors.Is(err, mirror.ErrMalformed) {
			r.logger.Warn("Ignoring malformed mirror value", gecho.Field("key", r.key), gecho.Field("error", err))
		} else {
			r.logger.Error("Failed to read mirror", gecho.Field("key", r.key), gecho.Field("error", err))
		}
		return zero, false
	}
	if value == nil {
		return zero, false
	}
	return *value, true
}

// Save writes value, logging failures. A mirror that cannot be written
// never blocks the caller.
func (r *LocalRepository[T]) Save(ctx context.Context, value T) {
	if err := mirror.SetJSON(ctx, r.store, r.key, value); err != nil {
		r.logger.Error("Failed to write mirror", gecho.Field("key", r.key), gecho.Field("error", err))
	}
}

// RemoteRepository fetches the full remote snapshot of one entity.
type RemoteRepository[T any] interface {
	Fetch(ctx context.Context) (T, error)
}

// RemoteFunc adapts a fetch function to RemoteRepository.
type RemoteFunc[T any] func(ctx context.Context) (T, error)

func (f RemoteFunc[T]) Fetch(ctx context.Context) (T, error) {
	return f(ctx)
}

// Outcome reports what Resolve did with a remote snapshot.
type Outcome int

const (
	OutcomeKept Outcome = iota
	OutcomeMerged
	OutcomeReplaced
	OutcomeRemoteEmpty
)

// SyncingRepository pairs the mirror copy of an entity with its remote
// source under one conflict policy.
type SyncingRepository[T any] struct {
	Name   string
	Local  *LocalRepository[T]
	Remote RemoteRepository[T]
	Policy ConflictPolicy
	// Persist writes the resolved value back to the mirror after a
	// remote merge or replace.
	Persist bool

	merge func(current, remote T) T
	empty func(T) bool
}

// Enabled reports whether a remote source is attached.
func (r *SyncingRepository[T]) Enabled() bool {
	return r.Remote != nil
}

// Resolve combines current with a fetched remote snapshot.
func (r *SyncingRepository[T]) Resolve(current, remote T) (T, Outcome) {
	switch r.Policy {
	case RemoteMergesOver:
		return r.merge(current, remote), OutcomeMerged
	case RemoteWinsWhenNonEmpty:
		if r.empty(remote) {
			return current, OutcomeRemoteEmpty
		}
		return remote, OutcomeReplaced
	default:
		return remote, OutcomeReplaced
	}
}

// Commit persists a resolved value when the repository is configured to.
func (r *SyncingRepository[T]) Commit(ctx context.Context, value T, outcome Outcome) {
	if r.Persist && (outcome == OutcomeMerged || outcome == OutcomeReplaced) {
		r.Local.Save(ctx, value)
	}
}
