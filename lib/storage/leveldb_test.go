package storage

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"reflect"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"maatnet.io/maat/lib/common"
	"maatnet.io/maat/lib/errors"
)

func openFileBackend(path string) *LevelDBBackend {
	config, _ := NewConfigFromString(fmt.Sprintf("file://%s", path))

	b := &LevelDBBackend{}
	if err := b.Init(config); err != nil {
		panic(err)
	}

	return b
}

func TestLevelDBBackendInitFileStorage(t *testing.T) {
	path, _ := ioutil.TempDir("/tmp", "maat")
	defer os.RemoveAll(path)

	b := &LevelDBBackend{}
	defer b.Close()

	config, _ := NewConfigFromString(fmt.Sprintf("file://%s", path))
	if err := b.Init(config); err != nil {
		t.Errorf("failed to initialize file db: %v", err)
	}
}

func TestLevelDBBackendInitMemStorage(t *testing.T) {
	b := &LevelDBBackend{}
	defer b.Close()

	config, _ := NewConfigFromString("memory://")
	if err := b.Init(config); err != nil {
		t.Errorf("failed to initialize mem db: %v", err)
	}
}

func TestLevelDBBackendNew(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	key := "record-a"
	input := map[string]uint64{
		"yes":     12,
		"no":      7,
		"abstain": 1,
	}
	require.Nil(t, b.New(key, input))

	fetched := map[string]uint64{}
	require.Nil(t, b.Get(key, &fetched))
	require.Equal(t, input, fetched)

	// a second New under the same key must refuse
	if err := b.New(key, input); err == nil {
		t.Error("New accepted an existing key")
	}
}

func TestLevelDBBackendNews(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	var batch []Item
	for i := 0; i < 100; i++ {
		batch = append(batch, Item{fmt.Sprintf("batch-%d", i), i})
	}

	require.Nil(t, b.News(batch...))

	for _, it := range batch {
		exists, err := b.Has(it.Key)
		require.Nil(t, err)
		if !exists {
			t.Errorf("key %q missing after News", it.Key)
		}
	}
}

func TestLevelDBBackendHas(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	key := "record-a"
	if exists, _ := b.Has(key); exists {
		t.Error("Has sees a key before it is written")
	}

	b.New(key, 10)

	if exists, _ := b.Has(key); !exists {
		t.Error("Has misses a written key")
	}

	b.Remove(key)
	if exists, _ := b.Has(key); exists {
		t.Error("Has sees a removed key")
	}
}

func TestLevelDBBackendGetRaw(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	b.New("record-a", "payload")

	_, err := b.GetRaw("record-b")
	require.Equal(t, errors.StorageRecordDoesNotExist, err)
}

func TestLevelDBBackendSet(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	key := "record-a"

	if err := b.Set(key, 20); err == nil {
		t.Error("Set accepted a key that was never written")
	}

	b.New(key, 20)

	if err := b.Set(key, 21); err != nil {
		t.Errorf("failed to Set an existing key: %v", err)
	}
}

func TestLevelDBBackendRemove(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	key := "record-a"

	if err := b.Remove(key); err == nil {
		t.Error("Remove accepted a key that was never written")
	}

	b.New(key, 20)

	require.Nil(t, b.Remove(key))
	if exists, _ := b.Has(key); exists {
		t.Error("key still present after Remove")
	}
}

func randomPayload() map[string]string {
	p := map[string]string{}
	for i := 0; i < rand.Intn(100); i++ {
		p[uuid.New().String()] = uuid.New().String()
	}

	return p
}

func TestLevelDBNewThenGetOnDisk(t *testing.T) {
	path, _ := ioutil.TempDir("/tmp", "maat")
	defer os.RemoveAll(path)

	b := openFileBackend(path)
	defer b.Close()

	var keys []string
	written := map[string]map[string]string{}

	for i := 0; i < 10; i++ {
		key := uuid.New().String()
		payload := randomPayload()
		keys = append(keys, key)
		written[key] = payload

		require.Nil(t, b.New(key, payload))
	}

	for _, key := range keys {
		fetched := map[string]string{}
		require.Nil(t, b.Get(key, &fetched))

		if !reflect.DeepEqual(written[key], fetched) {
			t.Errorf("payload for %q came back different", key)
		}
	}
}

func TestLevelDBIterator(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	total := 240
	cutoff := 233

	var expected []string
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("%03d", i)
		b.New(key, 0)

		if len(expected) < cutoff {
			expected = append(expected, key)
		}
	}

	var collected []string
	next, closeFunc := b.GetIterator("", ListOptions{})
	for {
		item, hasNext := next()
		if !hasNext {
			break
		}
		if item.N > uint64(cutoff) {
			break
		}
		collected = append(collected, string(item.Key))
	}
	closeFunc()

	if len(collected) != cutoff {
		t.Errorf("want %d items, have %d", cutoff, len(collected))
	}
	if !reflect.DeepEqual(expected, collected) {
		t.Error("iteration order differs from key order")
	}
}

func TestLevelDBIteratorSeek(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	total := 240

	var expected []string
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("%03d", i)
		b.New(key, 0)
		expected = append(expected, key)
	}

	// the seek lands on the cursor key itself, so it is part of the result
	expected = expected[60:]

	var collected []string
	next, closeFunc := b.GetIterator("", ListOptions{Cursor: []byte("060")})
	for {
		item, hasNext := next()
		if !hasNext {
			break
		}
		collected = append(collected, string(item.Key))
	}
	closeFunc()

	if !reflect.DeepEqual(expected, collected) {
		t.Log(expected)
		t.Log(collected)
		t.Error("seek did not resume at the cursor key")
	}
}

func TestLevelDBIteratorLimit(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	total := 240

	var expected []string
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("%03d", i)
		b.New(key, 0)
		expected = append(expected, key)
	}

	expected = expected[:100]

	var collected []string
	next, closeFunc := b.GetIterator("", ListOptions{Limit: 100})
	for {
		item, hasNext := next()
		if !hasNext {
			break
		}
		collected = append(collected, string(item.Key))
	}
	closeFunc()

	if !reflect.DeepEqual(expected, collected) {
		t.Log(expected)
		t.Log(collected)
		t.Error("limit did not cut the iteration at 100 items")
	}
}

func TestLevelDBIteratorReverseOrder(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	total := 30

	var expected []string
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("%03d", i)
		b.New(key, 0)
		expected = append(expected, key)
	}

	var collected []string
	next, closeFunc := b.GetIterator("", ListOptions{Reverse: true})
	for {
		item, hasNext := next()
		if !hasNext {
			break
		}
		collected = append(collected, string(item.Key))
	}
	closeFunc()

	require.Equal(t, len(expected), len(collected))
	for i, key := range expected {
		if key != collected[len(collected)-1-i] {
			t.Error("reverse iteration is not the mirror of forward order")
		}
	}
}

func TestLevelDBBackendTransactionCommit(t *testing.T) {
	dbpath := fmt.Sprintf("/tmp/%s", common.GetUniqueIDFromUUID())
	defer os.RemoveAll(dbpath)

	b := openFileBackend(dbpath)
	defer b.Close()

	tx, _ := b.OpenTransaction()

	key := common.GetUniqueIDFromUUID()
	value := "committed"
	require.Nil(t, tx.New(key, value))

	// the transaction reads its own write
	var inside string
	require.Nil(t, tx.Get(key, &inside))
	require.Equal(t, value, inside)

	tx.Commit()

	var outside string
	if err := b.Get(key, &outside); err != nil {
		t.Errorf("record not visible after Commit: %v", err)
	}
	require.Equal(t, value, outside)
}

func TestLevelDBBackendTransactionDiscard(t *testing.T) {
	dbpath := fmt.Sprintf("/tmp/%s", common.GetUniqueIDFromUUID())
	defer os.RemoveAll(dbpath)

	b := openFileBackend(dbpath)
	defer b.Close()

	tx, _ := b.OpenTransaction()

	key := common.GetUniqueIDFromUUID()
	require.Nil(t, tx.New(key, "discarded"))

	var inside string
	require.Nil(t, tx.Get(key, &inside))

	tx.Discard()

	var outside string
	if err := b.Get(key, &outside); err == nil {
		t.Error("record survived Discard")
	}
}

func TestLevelDBWalk(t *testing.T) {
	b := NewTestStorage()
	defer b.Close()

	records := map[string]string{
		"vote-1": "1",
		"vote-2": "2",
		"vote-3": "3",
		"vote-4": "4",
		"vote-5": "5",
	}
	for k, v := range records {
		require.Nil(t, b.New(k, v))
	}

	// a neighbour outside the prefix must stay invisible to the walk
	require.Nil(t, b.New("voter-1", "x"))

	var walked []string
	option := NewWalkOption("vote-1", 10, false)
	err := b.Walk("vote-", option, func(k, v []byte) (bool, error) {
		walked = append(walked, string(k))
		return true, nil
	})
	require.Nil(t, err)
	require.Equal(t, len(records), len(walked))

	var keys []string
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	require.Equal(t, keys, walked)
}
