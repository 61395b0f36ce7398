package boltdb

import (
	"context"
	"errors"
	"io"
	"path"
	"sync"

	json "github.com/nikkolasg/hexjson"
	bolt "go.etcd.io/bbolt"

	"github.com/paul-weiss/zkp/archive"
	"github.com/paul-weiss/zkp/log"
	"github.com/paul-weiss/zkp/schnorr"
)

// BoltStore implements the archive.Store interface using the kv storage
// boltdb (native golang implementation). Internally, transcripts are stored
// JSON-encoded in the db file, keyed by their hash.
type BoltStore struct {
	sync.Mutex
	db *bolt.DB

	log log.Logger
}

var transcriptBucket = []byte("transcripts")

// BoltFileName is the name of the file boltdb writes to
const BoltFileName = "zkp.db"

// BoltStoreOpenPerm is the permission we will use to read bolt store file from disk
const BoltStoreOpenPerm = 0660

// NewBoltStore returns an archive.Store implementation using the boltdb
// storage engine.
func NewBoltStore(ctx context.Context, l log.Logger, folder string, opts *bolt.Options) (archive.Store, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	dbPath := path.Join(folder, BoltFileName)
	db, err := bolt.Open(dbPath, BoltStoreOpenPerm, opts)
	if err != nil {
		return nil, err
	}
	// create the bucket already
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(transcriptBucket)
		return err
	})

	return &BoltStore{
		log: l,
		db:  db,
	}, err
}

// Put stores the transcript under its hash. Storing the same transcript
// twice overwrites the previous entry, the key pins the content anyway.
func (b *BoltStore) Put(ctx context.Context, tr *schnorr.Transcript) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if tr == nil {
		return errors.New("boltdb: refusing to store a nil transcript")
	}
	if err := tr.ValidateBasic(); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(transcriptBucket)
		buff, err := json.Marshal(tr)
		if err != nil {
			return err
		}
		err = bucket.Put(tr.Hash(), buff)
		if err != nil {
			b.log.Debugw("storing transcript", "transcript", tr, "err", err)
		}
		return err
	})
}

// Get returns the transcript saved under the given hash.
func (b *BoltStore) Get(ctx context.Context, hash []byte) (*schnorr.Transcript, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	tr := &schnorr.Transcript{}
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(transcriptBucket)
		v := bucket.Get(hash)
		if v == nil {
			return archive.ErrNoTranscriptStored
		}
		return json.Unmarshal(v, tr)
	})
	return tr, err
}

// Has reports whether a transcript lives under the given hash.
func (b *BoltStore) Has(ctx context.Context, hash []byte) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(transcriptBucket).Get(hash) != nil
		return nil
	})
	return found, err
}

func (b *BoltStore) Del(ctx context.Context, hash []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(transcriptBucket)
		return bucket.Delete(hash)
	})
}

// Len performs a big scan over the bucket and is _very_ slow - use sparingly!
func (b *BoltStore) Len(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	var length = 0
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(transcriptBucket)
		// this `.Stats()` call is the particularly expensive one!
		length = bucket.Stats().KeyN
		return nil
	})
	if err != nil {
		b.log.Warnw("boltdb error getting length", "err", err)
	}
	return length, err
}

// ForEach runs fn over every stored transcript. An error returned by fn
// stops the iteration and is passed through.
func (b *BoltStore) ForEach(ctx context.Context, fn func(tr *schnorr.Transcript) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(transcriptBucket)
		return bucket.ForEach(func(k, v []byte) error {
			tr := &schnorr.Transcript{}
			if err := json.Unmarshal(v, tr); err != nil {
				return err
			}
			return fn(tr)
		})
	})
}

func (b *BoltStore) Close(context.Context) error {
	err := b.db.Close()
	if err != nil {
		b.log.Errorw("boltdb close", "err", err)
	}
	return err
}

// SaveTo saves the bolt database to an alternate file.
func (b *BoltStore) SaveTo(ctx context.Context, w io.Writer) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return b.db.View(func(tx *bolt.Tx) error {
		_, err := tx.WriteTo(w)
		return err
	})
}
