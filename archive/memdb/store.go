package memdb

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/paul-weiss/zkp/archive"
	"github.com/paul-weiss/zkp/schnorr"
)

// Store keeps transcripts in memory, in insertion order. It is meant for
// tests and short-lived tooling, the boltdb store is the persistent one.
type Store struct {
	storeMtx *sync.RWMutex
	store    map[string]*schnorr.Transcript
	order    []string
}

// NewStore returns an empty in-memory transcript store.
func NewStore() *Store {
	return &Store{
		storeMtx: &sync.RWMutex{},
		store:    map[string]*schnorr.Transcript{},
	}
}

func (m *Store) Len(_ context.Context) (int, error) {
	m.storeMtx.RLock()
	defer m.storeMtx.RUnlock()

	return len(m.store), nil
}

func (m *Store) Put(_ context.Context, tr *schnorr.Transcript) error {
	if tr == nil {
		return errors.New("memdb: refusing to store a nil transcript")
	}
	if err := tr.ValidateBasic(); err != nil {
		return err
	}

	m.storeMtx.Lock()
	defer m.storeMtx.Unlock()

	key := string(tr.Hash())
	if _, found := m.store[key]; found {
		return nil
	}
	m.store[key] = clone(tr)
	m.order = append(m.order, key)
	return nil
}

func (m *Store) Get(_ context.Context, hash []byte) (*schnorr.Transcript, error) {
	m.storeMtx.RLock()
	defer m.storeMtx.RUnlock()

	tr, found := m.store[string(hash)]
	if !found {
		return nil, archive.ErrNoTranscriptStored
	}
	return clone(tr), nil
}

func (m *Store) Has(_ context.Context, hash []byte) (bool, error) {
	m.storeMtx.RLock()
	defer m.storeMtx.RUnlock()

	_, found := m.store[string(hash)]
	return found, nil
}

func (m *Store) Del(_ context.Context, hash []byte) error {
	m.storeMtx.Lock()
	defer m.storeMtx.Unlock()

	key := string(hash)
	if _, found := m.store[key]; !found {
		return nil
	}
	delete(m.store, key)
	for idx, k := range m.order {
		if k == key {
			m.order = append(m.order[:idx], m.order[idx+1:]...)
			break
		}
	}
	return nil
}

// ForEach visits the transcripts in insertion order.
func (m *Store) ForEach(_ context.Context, fn func(tr *schnorr.Transcript) error) error {
	m.storeMtx.RLock()
	defer m.storeMtx.RUnlock()

	for _, key := range m.order {
		if err := fn(clone(m.store[key])); err != nil {
			return err
		}
	}
	return nil
}

// Close is a noop
func (m *Store) Close(_ context.Context) error {
	return nil
}

func clone(tr *schnorr.Transcript) *schnorr.Transcript {
	return &schnorr.Transcript{
		T: new(big.Int).Set(tr.T),
		C: new(big.Int).Set(tr.C),
		S: new(big.Int).Set(tr.S),
	}
}
