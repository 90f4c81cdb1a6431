package collection_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/estoque/pkg/collection"
)

func TestMap(t *testing.T) {
	got := collection.Map([]string{"a", "b"}, strings.ToUpper)
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestFilterNeverNil(t *testing.T) {
	got := collection.Filter([]int{1, 3}, func(n int) bool { return n%2 == 0 })
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Equal(t, []int{2, 4}, collection.Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 }))
}

func TestFirst(t *testing.T) {
	v, ok := collection.First([]int{1, 2, 3}, func(n int) bool { return n > 1 })
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = collection.First([]int{1}, func(n int) bool { return n > 1 })
	assert.False(t, ok)
}

func TestReduce(t *testing.T) {
	sum := collection.Reduce([]int{1, 2, 3}, 0, func(acc, n int) int { return acc + n })
	assert.Equal(t, 6, sum)
	assert.Equal(t, "x", collection.Reduce(nil, "x", func(acc string, n int) string { return acc }))
}
