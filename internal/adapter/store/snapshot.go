// Package store persists knowledge-base snapshots: a serialized flat
// index plus a metadata database holding the position-aligned chunk
// texts and sources. The two files form one logical snapshot; writes
// go to temporary paths and are renamed into place only after both
// succeed, so readers never observe a half-written generation.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"kalebbot/internal/adapter/index"
	"kalebbot/internal/domain"
)

var (
	bucketChunks = []byte("chunks")
	bucketMeta   = []byte("meta")
	keyCount     = []byte("count")
	keyGen       = []byte("generation")
	keyDimension = []byte("dimension")
)

// ErrMissingSnapshot reports that one or both snapshot files are absent.
var ErrMissingSnapshot = errors.New("knowledge base snapshot not found")

// Snapshot is one loaded (index, metadata) generation.
type Snapshot struct {
	Index      *index.FlatL2
	Chunks     []domain.Chunk
	Generation uint64
}

// SnapshotStore reads and writes snapshots at fixed paths.
type SnapshotStore struct {
	indexPath string
	metaPath  string
}

// NewSnapshotStore creates a store over the two snapshot file paths.
func NewSnapshotStore(indexPath, metaPath string) *SnapshotStore {
	return &SnapshotStore{indexPath: indexPath, metaPath: metaPath}
}

type chunkRecord struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Save writes a full replacement snapshot. The previous generation
// stays intact until both artifacts are fully written.
func (s *SnapshotStore) Save(idx *index.FlatL2, chunks []domain.Chunk) (uint64, error) {
	if idx.Len() != len(chunks) {
		return 0, fmt.Errorf("index/metadata misalignment: %d vectors, %d chunks", idx.Len(), len(chunks))
	}

	generation := uint64(time.Now().UnixNano())

	indexTmp := s.indexPath + ".tmp"
	metaTmp := s.metaPath + ".tmp"
	cleanup := func() {
		os.Remove(indexTmp)
		os.Remove(metaTmp)
	}

	if err := s.writeIndex(indexTmp, idx); err != nil {
		cleanup()
		return 0, fmt.Errorf("failed to write index: %w", err)
	}
	if err := s.writeMetadata(metaTmp, chunks, idx.Dimension(), generation); err != nil {
		cleanup()
		return 0, fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := os.Rename(indexTmp, s.indexPath); err != nil {
		cleanup()
		return 0, fmt.Errorf("failed to swap index: %w", err)
	}
	if err := os.Rename(metaTmp, s.metaPath); err != nil {
		os.Remove(metaTmp)
		return 0, fmt.Errorf("failed to swap metadata: %w", err)
	}

	return generation, nil
}

func (s *SnapshotStore) writeIndex(path string, idx *index.FlatL2) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := idx.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *SnapshotStore) writeMetadata(path string, chunks []domain.Chunk, dimension int, generation uint64) error {
	// A stale tmp database from a crashed build would be appended to.
	os.Remove(path)

	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		cb, err := tx.CreateBucketIfNotExists(bucketChunks)
		if err != nil {
			return err
		}
		mb, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		for pos, chunk := range chunks {
			data, err := json.Marshal(chunkRecord{Text: chunk.Text, Source: chunk.Source})
			if err != nil {
				return err
			}
			if err := cb.Put(positionKey(pos), data); err != nil {
				return err
			}
		}

		if err := mb.Put(keyCount, u64(uint64(len(chunks)))); err != nil {
			return err
		}
		if err := mb.Put(keyDimension, u64(uint64(dimension))); err != nil {
			return err
		}
		return mb.Put(keyGen, u64(generation))
	})
}

// Load reads the current snapshot. Returns ErrMissingSnapshot when
// either file is absent, and an error when the pair is misaligned
// (count mismatch between index and metadata).
func (s *SnapshotStore) Load() (*Snapshot, error) {
	for _, path := range []string{s.indexPath, s.metaPath} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, ErrMissingSnapshot
			}
			return nil, err
		}
	}

	f, err := os.Open(s.indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index file: %w", err)
	}
	idx, err := index.ReadFlatL2(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	chunks, generation, count, err := s.readMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	if int(count) != len(chunks) || idx.Len() != len(chunks) {
		return nil, fmt.Errorf("snapshot mismatch: index has %d vectors, metadata has %d chunks (declared %d)",
			idx.Len(), len(chunks), count)
	}

	return &Snapshot{Index: idx, Chunks: chunks, Generation: generation}, nil
}

func (s *SnapshotStore) readMetadata() ([]domain.Chunk, uint64, uint64, error) {
	db, err := bbolt.Open(s.metaPath, 0600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, 0, 0, err
	}
	defer db.Close()

	var (
		chunks     []domain.Chunk
		generation uint64
		count      uint64
	)

	err = db.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMeta)
		if mb == nil {
			return fmt.Errorf("metadata database has no meta bucket")
		}
		if v := mb.Get(keyGen); v != nil {
			generation = binary.BigEndian.Uint64(v)
		}
		if v := mb.Get(keyCount); v != nil {
			count = binary.BigEndian.Uint64(v)
		}

		cb := tx.Bucket(bucketChunks)
		if cb == nil {
			return fmt.Errorf("metadata database has no chunks bucket")
		}

		chunks = make([]domain.Chunk, 0, count)
		// Big-endian position keys iterate in insertion order.
		return cb.ForEach(func(k, v []byte) error {
			var rec chunkRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt chunk record at position %d: %w", binary.BigEndian.Uint64(k), err)
			}
			chunks = append(chunks, domain.Chunk{Text: rec.Text, Source: rec.Source})
			return nil
		})
	})
	if err != nil {
		return nil, 0, 0, err
	}

	return chunks, generation, count, nil
}

func positionKey(pos int) []byte {
	return u64(uint64(pos))
}

func u64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}
