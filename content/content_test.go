package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreAndRetrieve(t *testing.T) {
	s := NewStore()
	data := []byte("Hello, Swarm!")
	cid := s.Store(data)
	assert.True(t, s.Exists(cid))
	got, ok := s.Get(cid)
	assert.True(t, ok)
	assert.Equal(t, data, got)
}

func TestDeduplication(t *testing.T) {
	s := NewStore()
	cid1 := s.Store([]byte("same"))
	cid2 := s.Store([]byte("same"))
	assert.Equal(t, cid1, cid2)
	assert.Equal(t, 1, s.ItemCount())
}

func TestCIDDeterministic(t *testing.T) {
	assert.Equal(t, ComputeCID([]byte("test")), ComputeCID([]byte("test")))
}

func TestProviders(t *testing.T) {
	s := NewStore()
	cid := s.Store([]byte("data"))
	s.PublishProvider(cid, "agent-1")
	s.PublishProvider(cid, "agent-2")
	assert.Len(t, s.GetProviders(cid), 2)
}

func TestGetMissing(t *testing.T) {
	s := NewStore()
	_, ok := s.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, s.GetProviders("missing"))
}

func TestAllCIDs(t *testing.T) {
	s := NewStore()
	s.Store([]byte("a"))
	s.Store([]byte("b"))
	assert.Len(t, s.AllCIDs(), 2)
}
