// Package host is a reference implementation of the authoritative graph store
// an editor syncs with. It keeps every committed graph as a numbered revision
// in badger, executes undo, redo and the rewrite operations, and pushes the
// results to its subscribers.
package host

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/psidex/zxedit/internal/graph"
	"github.com/psidex/zxedit/internal/lib"
	"github.com/psidex/zxedit/internal/metrics"
	"github.com/psidex/zxedit/internal/snapshot"
)

// Actions understood besides the rewrite ids.
const (
	ActionUndo = "undo"
	ActionRedo = "redo"
)

var (
	// ErrNothingToUndo is returned by an undo at the first revision.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by a redo at the newest revision.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrUnknownAction is returned for actions that are neither history
	// actions nor registered rewrites.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNotApplicable is returned when a rewrite's preconditions do not hold
	// for the current selection.
	ErrNotApplicable = errors.New("operation does not apply to the selection")
)

var (
	keyCurrent = []byte("meta/current")
	keyHead    = []byte("meta/head")
	revPrefix  = []byte("rev/")
)

func revKey(rev uint64) []byte {
	k := make([]byte, len(revPrefix)+8)
	copy(k, revPrefix)
	binary.BigEndian.PutUint64(k[len(revPrefix):], rev)
	return k
}

// Inbound is what the host sends to an editor. Nil fields are unchanged.
type Inbound struct {
	Graph      *snapshot.Snapshot  `json:"graph,omitempty"`
	Selection  *snapshot.Snapshot  `json:"selection,omitempty"`
	Operations snapshot.Operations `json:"operations,omitempty"`
}

type revision struct {
	Reason string             `json:"reason"`
	Graph  *snapshot.Snapshot `json:"graph"`
}

// Store owns the authoritative graph. It is safe for concurrent use.
type Store struct {
	db       *badger.DB
	logger   *slog.Logger
	rewrites []Rewrite

	mu        sync.Mutex
	current   uint64
	head      uint64
	graph     *snapshot.Snapshot
	selection *snapshot.Snapshot
	subs      map[int]chan Inbound
	nextSub   int
}

// Open opens (or initializes) the store at dir. An empty dir keeps everything
// in memory.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	db, err := openDB(dir, logger)
	if err != nil {
		return nil, err
	}
	s := &Store{
		db:       db,
		logger:   lib.OrDiscard(logger),
		rewrites: DefaultRewrites(),
		subs:     make(map[int]chan Inbound),
	}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()
	return s.db.Close()
}

func (s *Store) load() error {
	return s.db.Update(func(txn *badger.Txn) error {
		cur, err := readUint(txn, keyCurrent)
		if errors.Is(err, badger.ErrKeyNotFound) {
			empty := &snapshot.Snapshot{Nodes: []snapshot.Node{}, Links: []snapshot.Link{}}
			if err := writeRevision(txn, 1, revision{Reason: "init", Graph: empty}); err != nil {
				return err
			}
			s.current, s.head, s.graph = 1, 1, empty
			return writeMeta(txn, 1, 1)
		}
		if err != nil {
			return err
		}
		head, err := readUint(txn, keyHead)
		if err != nil {
			return err
		}
		rev, err := readRevision(txn, cur)
		if err != nil {
			return err
		}
		s.current, s.head, s.graph = cur, head, rev.Graph
		s.logger.Info("loaded graph store", "revision", cur, "head", head)
		return nil
	})
}

func readUint(txn *badger.Txn, key []byte) (uint64, error) {
	item, err := txn.Get(key)
	if err != nil {
		return 0, err
	}
	var n uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return errors.Errorf("bad value for %s", key)
		}
		n = binary.BigEndian.Uint64(val)
		return nil
	})
	return n, err
}

func writeMeta(txn *badger.Txn, current, head uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, current)
	if err := txn.Set(keyCurrent, buf); err != nil {
		return err
	}
	buf = make([]byte, 8)
	binary.BigEndian.PutUint64(buf, head)
	return txn.Set(keyHead, buf)
}

func readRevision(txn *badger.Txn, rev uint64) (revision, error) {
	var r revision
	item, err := txn.Get(revKey(rev))
	if err != nil {
		return r, errors.Wrapf(err, "revision %d", rev)
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &r)
	})
	return r, errors.Wrapf(err, "decode revision %d", rev)
}

func writeRevision(txn *badger.Txn, rev uint64, r revision) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return txn.Set(revKey(rev), data)
}

// Revision returns the current revision number and the newest one redo can
// reach.
func (s *Store) Revision() (current, head uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.head
}

// Current returns the authoritative graph snapshot.
func (s *Store) Current() *snapshot.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Subscribe returns a channel of updates, starting with the current state. It
// is closed when ctx is done or the store is closed.
func (s *Store) Subscribe(ctx context.Context) <-chan Inbound {
	ch := make(chan Inbound, 16)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- Inbound{Graph: s.graph, Selection: s.selection, Operations: s.descriptorsLocked()}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}()
	return ch
}

// Watch feeds updates to fn until ctx is done. It matches Client.Watch so an
// in-process store and a remote host can be used the same way.
func (s *Store) Watch(ctx context.Context, fn func(Inbound)) error {
	for msg := range s.Subscribe(ctx) {
		fn(msg)
	}
	return ctx.Err()
}

// broadcastLocked sends msg to every subscriber without blocking. A subscriber
// whose buffer is full misses the message.
func (s *Store) broadcastLocked(msg Inbound) {
	for id, ch := range s.subs {
		select {
		case ch <- msg:
		default:
			s.logger.Warn("subscriber too slow, dropping update", "subscriber", id)
		}
	}
}

// commitLocked stores g as a new revision after the current one, discarding
// anything redo could have reached.
func (s *Store) commitLocked(g *snapshot.Snapshot, reason string) error {
	next := s.current + 1
	err := s.db.Update(func(txn *badger.Txn) error {
		for rev := next + 1; rev <= s.head; rev++ {
			if err := txn.Delete(revKey(rev)); err != nil {
				return err
			}
		}
		if err := writeRevision(txn, next, revision{Reason: reason, Graph: g}); err != nil {
			return err
		}
		return writeMeta(txn, next, next)
	})
	if err != nil {
		return errors.Wrap(err, "commit revision")
	}
	s.current, s.head, s.graph = next, next, g
	metrics.HostRevisions.Set(float64(next))
	return nil
}

func (s *Store) moveToLocked(rev uint64) error {
	var r revision
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		if r, err = readRevision(txn, rev); err != nil {
			return err
		}
		return writeMeta(txn, rev, s.head)
	})
	if err != nil {
		return err
	}
	s.current, s.graph = rev, r.Graph
	metrics.HostRevisions.Set(float64(rev))
	return nil
}

// workingGraph builds the current graph with the current selection marked.
func (s *Store) workingGraphLocked() (*graph.Graph, error) {
	g, err := s.graph.Build()
	if err != nil {
		return nil, err
	}
	snapshot.MarkSelection(g, s.selection)
	return g, nil
}

func (s *Store) descriptorsLocked() snapshot.Operations {
	g, err := s.workingGraphLocked()
	if err != nil {
		s.logger.Error("stored graph does not build", "error", err)
		g = graph.New()
	}
	return Descriptors(s.rewrites, g)
}

// PushGraph commits an edit made by an editor. The editor already shows it, so
// only the recomputed operations are broadcast.
func (s *Store) PushGraph(_ context.Context, snap *snapshot.Snapshot, reason string) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commitLocked(snap, reason); err != nil {
		return err
	}
	s.logger.Debug("committed edit", "revision", s.current, "reason", reason)
	s.broadcastLocked(Inbound{Operations: s.descriptorsLocked()})
	return nil
}

// PushSelection records the editor's selection and broadcasts the operations
// it enables.
func (s *Store) PushSelection(_ context.Context, sel *snapshot.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = sel
	s.broadcastLocked(Inbound{Operations: s.descriptorsLocked()})
	return nil
}

// Replace commits a graph that changed outside any editor, such as an edited
// snapshot file, and pushes it to every subscriber.
func (s *Store) Replace(snap *snapshot.Snapshot, reason string) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commitLocked(snap, reason); err != nil {
		return err
	}
	s.broadcastLocked(Inbound{Graph: snap, Selection: s.selection, Operations: s.descriptorsLocked()})
	return nil
}

// RequestAction runs undo, redo or a registered rewrite and broadcasts the
// resulting graph.
func (s *Store) RequestAction(_ context.Context, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.actionLocked(action)
	metrics.HostActions.WithLabelValues(action, metrics.Result(err)).Inc()
	if err != nil {
		s.logger.Info("action failed", "action", action, "error", err)
		return err
	}
	s.logger.Debug("action applied", "action", action, "revision", s.current)
	s.broadcastLocked(Inbound{Graph: s.graph, Selection: s.selection, Operations: s.descriptorsLocked()})
	return nil
}

func (s *Store) actionLocked(action string) error {
	switch action {
	case ActionUndo:
		if s.current <= 1 {
			return ErrNothingToUndo
		}
		return s.moveToLocked(s.current - 1)
	case ActionRedo:
		if s.current >= s.head {
			return ErrNothingToRedo
		}
		return s.moveToLocked(s.current + 1)
	}

	for _, r := range s.rewrites {
		if r.ID != action {
			continue
		}
		g, err := s.workingGraphLocked()
		if err != nil {
			return err
		}
		if !r.Applies(g) {
			return errors.Wrapf(ErrNotApplicable, "operation %q", action)
		}
		if err := r.Apply(g); err != nil {
			return errors.Wrapf(err, "operation %q", action)
		}
		if err := s.commitLocked(snapshot.Full(g), action); err != nil {
			return err
		}
		s.selection = snapshot.Selection(g)
		return nil
	}
	return errors.Wrapf(ErrUnknownAction, "%q", action)
}
