package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAndContains(t *testing.T) {
	s := NewOrSet[string]("n1")
	s.Add("hello")
	assert.True(t, s.Contains("hello"))
	assert.False(t, s.Contains("world"))
}

func TestRemove(t *testing.T) {
	s := NewOrSet[string]("n1")
	s.Add("x")
	s.Remove("x")
	assert.False(t, s.Contains("x"))
}

func TestAddAfterRemove(t *testing.T) {
	s := NewOrSet[string]("n1")
	s.Add("x")
	s.Remove("x")
	s.Add("x")
	assert.True(t, s.Contains("x"), "re-add must restore element")
}

func TestMergeBasic(t *testing.T) {
	a := NewOrSet[string]("a")
	b := NewOrSet[string]("b")
	a.Add("1")
	b.Add("2")
	a.Merge(b)
	assert.True(t, a.Contains("1"))
	assert.True(t, a.Contains("2"))
}

func TestConcurrentAddWins(t *testing.T) {
	a := NewOrSet[string]("a")
	b := NewOrSet[string]("b")

	a.Add("x")
	b.Add("x")

	a.Merge(b)
	b.Merge(a)

	a.Add("x")
	b.Remove("x")

	a.Merge(b)
	assert.True(t, a.Contains("x"), "concurrent add must win")
}

func TestMergeIdempotent(t *testing.T) {
	a := NewOrSet[string]("a")
	b := NewOrSet[string]("b")
	a.Add("x")
	b.Add("y")
	a.Merge(b)
	a.Merge(b)
	assert.Equal(t, 2, a.Len())
}

func TestLenAndIsEmpty(t *testing.T) {
	s := NewOrSet[string]("n1")
	assert.True(t, s.IsEmpty())
	s.Add("a")
	s.Add("b")
	assert.Equal(t, 2, s.Len())
	s.Remove("a")
	assert.Equal(t, 1, s.Len())
}
