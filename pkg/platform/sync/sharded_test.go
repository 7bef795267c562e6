package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutex_LockUnlock(t *testing.T) {
	m := NewShardedMutex()

	m.Lock("token:991825827")
	m.Unlock("token:991825827")

	// empty key maps to shard 0
	m.Lock("")
	m.Unlock("")
}

func TestShardedMutex_SameKeySerializes(t *testing.T) {
	m := NewShardedMutex()
	counter := 0

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Do("entity:974760673", func() {
				counter++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestShardedMutex_StableShard(t *testing.T) {
	m := NewShardedMutex()
	assert.Equal(t, m.shardFor("abc"), m.shardFor("abc"))
	assert.Less(t, m.shardFor("abc"), defaultShards)
}

func TestNewShardedMutexN(t *testing.T) {
	m := NewShardedMutexN(0)
	assert.Len(t, m.shards, 1)
	assert.Equal(t, 0, m.shardFor("anything"))
}
