package storage

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	ldbiter "github.com/syndtr/goleveldb/leveldb/iterator"
	ldbopt "github.com/syndtr/goleveldb/leveldb/opt"
	ldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	ldbutil "github.com/syndtr/goleveldb/leveldb/util"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/errors"
)

// coreOps is the slice of goleveldb shared by *leveldb.DB and
// *leveldb.Transaction, so a backend can run over either one.
type coreOps interface {
	Has([]byte, *ldbopt.ReadOptions) (bool, error)
	Get([]byte, *ldbopt.ReadOptions) ([]byte, error)
	NewIterator(*ldbutil.Range, *ldbopt.ReadOptions) ldbiter.Iterator
	Put([]byte, []byte, *ldbopt.WriteOptions) error
	Write(*leveldb.Batch, *ldbopt.WriteOptions) error
	Delete([]byte, *ldbopt.WriteOptions) error
}

// LevelDBBackend stores every record family as json values under string
// keys. All ordering guarantees come from the key layout.
type LevelDBBackend struct {
	db   *leveldb.DB
	core coreOps
}

func coreError(err error) error {
	if err == nil {
		return nil
	}

	return errors.NewError(
		errors.StorageCoreError.Code,
		fmt.Sprintf("%s: %s", errors.StorageCoreError.Message, err.Error()),
	)
}

func NewStorage(config *Config) (*LevelDBBackend, error) {
	b := &LevelDBBackend{}
	if err := b.Init(config); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *LevelDBBackend) Init(config *Config) error {
	var db *leveldb.DB
	var err error

	switch config.Scheme {
	case "file":
		db, err = leveldb.OpenFile(config.Path, nil)
	case "memory":
		db, err = leveldb.Open(ldbstorage.NewMemStorage(), nil)
	}
	if err != nil {
		return coreError(err)
	}

	b.db = db
	b.core = db

	return nil
}

func (b *LevelDBBackend) Close() error {
	return b.db.Close()
}

// OpenTransaction layers a leveldb transaction over the same database; the
// returned backend answers reads and buffers writes until Commit.
func (b *LevelDBBackend) OpenTransaction() (*LevelDBBackend, error) {
	if _, ok := b.core.(*leveldb.Transaction); ok {
		return nil, coreError(fmt.Errorf("this is already *leveldb.Transaction"))
	}

	tx, err := b.core.(*leveldb.DB).OpenTransaction()
	if err != nil {
		return nil, coreError(err)
	}

	return &LevelDBBackend{db: b.db, core: tx}, nil
}

func (b *LevelDBBackend) Discard() error {
	tx, ok := b.core.(*leveldb.Transaction)
	if !ok {
		return coreError(fmt.Errorf("this is not *leveldb.Transaction"))
	}

	tx.Discard()
	return nil
}

func (b *LevelDBBackend) Commit() error {
	tx, ok := b.core.(*leveldb.Transaction)
	if !ok {
		return coreError(fmt.Errorf("this is not *leveldb.Transaction"))
	}

	return coreError(tx.Commit())
}

func (b *LevelDBBackend) Has(k string) (bool, error) {
	ok, err := b.core.Has([]byte(k), nil)
	if err == leveldb.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, coreError(err)
	}

	return ok, nil
}

func (b *LevelDBBackend) GetRaw(k string) ([]byte, error) {
	exists, err := b.Has(k)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.StorageRecordDoesNotExist
	}

	blob, err := b.core.Get([]byte(k), nil)
	return blob, coreError(err)
}

func (b *LevelDBBackend) Get(k string, i interface{}) error {
	blob, err := b.GetRaw(k)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(blob, &i); err != nil {
		return coreError(err)
	}

	return nil
}

// New writes a record that must not exist yet.
func (b *LevelDBBackend) New(k string, v interface{}) error {
	var blob []byte
	var err error
	if s, ok := v.(common.Serializable); ok {
		blob, err = s.Serialize()
	} else {
		blob, err = common.EncodeJSONValue(v)
	}
	if err != nil {
		return coreError(err)
	}

	exists, err := b.Has(k)
	if err != nil {
		return err
	}
	if exists {
		return errors.StorageRecordAlreadyExists
	}

	return coreError(b.core.Put([]byte(k), blob, nil))
}

// News writes a batch of fresh records; any existing key refuses the whole
// batch before a single write happens.
func (b *LevelDBBackend) News(items ...Item) error {
	if len(items) < 1 {
		return coreError(fmt.Errorf("empty values"))
	}

	for _, it := range items {
		exists, err := b.Has(it.Key)
		if err != nil {
			return err
		}
		if exists {
			return errors.StorageRecordAlreadyExists
		}
	}

	batch := new(leveldb.Batch)
	for _, it := range items {
		blob, err := common.EncodeJSONValue(it)
		if err != nil {
			return coreError(err)
		}

		batch.Put([]byte(it.Key), blob)
	}

	return coreError(b.core.Write(batch, nil))
}

// Set overwrites a record that must already exist.
func (b *LevelDBBackend) Set(k string, v interface{}) error {
	blob, err := common.EncodeJSONValue(v)
	if err != nil {
		return coreError(err)
	}

	exists, err := b.Has(k)
	if err != nil {
		return err
	}
	if !exists {
		return errors.StorageRecordDoesNotExist
	}

	return coreError(b.core.Put([]byte(k), blob, nil))
}

func (b *LevelDBBackend) Sets(items ...Item) error {
	if len(items) < 1 {
		return coreError(fmt.Errorf("empty values"))
	}

	for _, it := range items {
		exists, err := b.Has(it.Key)
		if err != nil {
			return err
		}
		if !exists {
			return errors.StorageRecordDoesNotExist
		}
	}

	batch := new(leveldb.Batch)
	for _, it := range items {
		blob, err := common.EncodeJSONValue(it)
		if err != nil {
			return coreError(err)
		}

		batch.Put([]byte(it.Key), blob)
	}

	return coreError(b.core.Write(batch, nil))
}

func (b *LevelDBBackend) Remove(k string) error {
	exists, err := b.Has(k)
	if err != nil {
		return err
	}
	if !exists {
		return errors.StorageRecordDoesNotExist
	}

	return coreError(b.core.Delete([]byte(k), nil))
}

// GetIterator walks the records under prefix and hands back a pull func plus
// a closer. A cursor seeks to that key and emits it again, so pages overlap
// by one record; a non-zero limit flags the record past the page with
// ok=false. The closer is safe to call after exhaustion.
func (b *LevelDBBackend) GetIterator(prefix string, option ListOptions) (func() (IterItem, bool), func()) {
	reverse, cursor, limit := option.Reverse, option.Cursor, option.Limit

	var span *ldbutil.Range
	if len(prefix) > 0 {
		span = ldbutil.BytesPrefix([]byte(prefix))
	}

	iter := b.core.NewIterator(span, nil)

	if cursor != nil {
		iter.Seek(cursor)
	}

	var advance func() bool
	var pending bool
	if reverse {
		if !iter.Last() {
			iter.Release()
			return func() (IterItem, bool) { return IterItem{}, false }, func() {}
		}
		advance = iter.Prev
		pending = true
	} else {
		advance = iter.Next
		pending = cursor != nil
	}

	var seq uint64
	next := func() (IterItem, bool) {
		if pending {
			pending = false
			seq++
			return IterItem{N: seq, Key: iter.Key(), Value: iter.Value()}, true
		}

		if !advance() {
			iter.Release()
			return IterItem{}, false
		}

		seq++
		if limit != 0 && seq > limit {
			defer iter.Release()
			return IterItem{N: seq, Key: iter.Key(), Value: iter.Value()}, false
		}

		return IterItem{N: seq, Key: iter.Key(), Value: iter.Value()}, true
	}

	return next, func() { iter.Release() }
}

type (
	WalkFunc   func(key, value []byte) (bool, error)
	WalkOption struct {
		Cursor  string
		Limit   uint64
		Reverse bool
	}
)

func NewWalkOption(cursor string, limit uint64, reverse bool) *WalkOption {
	return &WalkOption{
		Cursor:  cursor,
		Limit:   limit,
		Reverse: reverse,
	}
}

// Walk feeds the records under prefix to walkFunc until it returns false,
// the limit is reached, or the prefix runs out. The seek lands on the cursor
// itself, so a resumed walk sees its cursor record again.
func (b *LevelDBBackend) Walk(prefix string, option *WalkOption, walkFunc WalkFunc) error {
	if option == nil {
		option = &WalkOption{Cursor: prefix, Limit: 10}
	}

	var span *ldbutil.Range
	if len(prefix) > 0 {
		span = ldbutil.BytesPrefix([]byte(prefix))
	}

	iter := b.core.NewIterator(span, nil)
	defer iter.Release()

	step := iter.Next
	if option.Reverse {
		step = iter.Prev
	}

	cursor := option.Cursor
	if cursor == "" {
		cursor = prefix
	}

	var seen uint64
	for ok := iter.Seek([]byte(cursor)); ok; ok = step() {
		if seen >= option.Limit {
			break
		}

		next, err := walkFunc(iter.Key(), iter.Value())
		if err != nil {
			return err
		}
		if !next {
			break
		}

		if err := iter.Error(); err != nil {
			return err
		}
		seen++
	}

	return iter.Error()
}
