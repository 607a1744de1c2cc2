// SPDX-License-Identifier: Unlicense OR MIT

// Package arena implements the fixed-size memory block that holds the
// state of one layout universe.
//
// An Arena is sized once, ahead of time, and handed out by bump
// allocation. Reset rewinds it for the next layout pass in O(1);
// Release drops the block and makes every later use panic.
package arena

import (
	"errors"
	"reflect"
	"sync"
	"unsafe"
)

// ErrSize is returned by New for a non-positive size.
var ErrSize = errors.New("arena: size must be positive")

// Arena is a single fixed-size block. It is not safe for concurrent
// use; the owner drives it from one goroutine.
type Arena struct {
	buf  []byte
	base uintptr
	off  int

	peak      int
	overflows int
}

// Metrics is a snapshot of arena usage.
type Metrics struct {
	InUse     int // Bytes handed out since the last Reset.
	Capacity  int // Size of the block.
	Peak      int // High-water mark of InUse, kept across Reset.
	Overflows int // Allocations refused for lack of space.
}

// New allocates a block of exactly size bytes.
func New(size int) (*Arena, error) {
	if size <= 0 {
		return nil, ErrSize
	}
	buf := make([]byte, size)
	return &Arena{
		buf:  buf,
		base: uintptr(unsafe.Pointer(&buf[0])),
	}, nil
}

// Alloc returns n zeroed bytes aligned to align, which must be a power
// of two. It reports false, and allocates nothing, when the block is
// exhausted.
func (a *Arena) Alloc(n, align int) ([]byte, bool) {
	a.panicIfReleased()
	if n < 0 || align <= 0 || align&(align-1) != 0 {
		panic("arena: invalid allocation")
	}
	start := a.aligned(a.off, align)
	if start+n > len(a.buf) {
		a.overflows++
		return nil, false
	}
	b := a.buf[start : start+n : start+n]
	clear(b)
	a.off = start + n
	if a.off > a.peak {
		a.peak = a.off
	}
	return b, true
}

// Slice allocates n zeroed elements of T inside the arena. T must not
// contain pointers: the garbage collector does not scan arena memory.
func Slice[T any](a *Arena, n int) ([]T, bool) {
	t := reflect.TypeFor[T]()
	if !pointerFree(t) {
		panic("arena: " + t.String() + " contains pointers")
	}
	if n == 0 {
		return nil, true
	}
	b, ok := a.Alloc(n*int(t.Size()), t.Align())
	if !ok {
		return nil, false
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), true
}

// SizeOf returns the number of bytes Slice needs for n elements of T,
// including the worst case alignment padding.
func SizeOf[T any](n int) int {
	t := reflect.TypeFor[T]()
	return n*int(t.Size()) + t.Align() - 1
}

// Reset rewinds the arena. Memory previously returned by Alloc or
// Slice is reused by later allocations.
func (a *Arena) Reset() {
	a.panicIfReleased()
	a.off = 0
}

// Release drops the block. Releasing twice is a no-op; any other use
// after Release panics.
func (a *Arena) Release() {
	a.buf = nil
	a.base = 0
	a.off = 0
}

// Released reports whether Release has been called.
func (a *Arena) Released() bool {
	return a.buf == nil
}

// Metrics returns a snapshot of the arena's usage.
func (a *Arena) Metrics() Metrics {
	return Metrics{
		InUse:     a.off,
		Capacity:  len(a.buf),
		Peak:      a.peak,
		Overflows: a.overflows,
	}
}

func (a *Arena) aligned(off, align int) int {
	addr := a.base + uintptr(off)
	mask := uintptr(align - 1)
	return off + int((addr+mask)&^mask-addr)
}

func (a *Arena) panicIfReleased() {
	if a.buf == nil {
		panic("arena: use after Release")
	}
}

// pointerFreeTypes caches the result of hasPointers, which allocates.
var pointerFreeTypes sync.Map // map[reflect.Type]bool

func pointerFree(t reflect.Type) bool {
	if v, ok := pointerFreeTypes.Load(t); ok {
		return v.(bool)
	}
	free := !hasPointers(t)
	pointerFreeTypes.Store(t, free)
	return free
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
