// SPDX-License-Identifier: Unlicense OR MIT

package text

import (
	"strconv"
	"testing"
)

func TestExtentLRU(t *testing.T) {
	c := new(lru[extentKey, Extent])
	put := func(i int) {
		c.Put(extentKey{str: strconv.Itoa(i)}, Extent{})
	}
	get := func(i int) bool {
		_, ok := c.Get(extentKey{str: strconv.Itoa(i)})
		return ok
	}
	testLRU(t, put, get)
}

func TestWrapLRU(t *testing.T) {
	c := new(lru[wrapKey, []Line])
	put := func(i int) {
		c.Put(wrapKey{str: strconv.Itoa(i)}, nil)
	}
	get := func(i int) bool {
		_, ok := c.Get(wrapKey{str: strconv.Itoa(i)})
		return ok
	}
	testLRU(t, put, get)
}

func testLRU(t *testing.T, put func(i int), get func(i int) bool) {
	for i := 0; i < maxSize; i++ {
		put(i)
	}
	for i := 0; i < maxSize; i++ {
		if !get(i) {
			t.Fatalf("key %d was evicted", i)
		}
	}
	put(maxSize)
	for i := 1; i < maxSize+1; i++ {
		if !get(i) {
			t.Fatalf("key %d was evicted", i)
		}
	}
	if i := 0; get(i) {
		t.Fatalf("key %d was not evicted", i)
	}
}

type countingMeasurer struct {
	Monospace
	measures int
}

func (c *countingMeasurer) Measure(str string, style Style) Extent {
	c.measures++
	return c.Monospace.Measure(str, style)
}

func TestCacheMeasure(t *testing.T) {
	m := new(countingMeasurer)
	c := NewCache(m)
	e1 := c.Measure("hello", Style{})
	e2 := c.Measure("hello", Style{})
	if e1 != e2 {
		t.Errorf("cached extent %+v differs from %+v", e2, e1)
	}
	if m.measures != 1 {
		t.Errorf("measured %d times, want 1", m.measures)
	}
	c.Measure("hello", Style{Size: 20})
	if m.measures != 2 {
		t.Errorf("style change did not miss the cache")
	}
}
