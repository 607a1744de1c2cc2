// SPDX-License-Identifier: Unlicense OR MIT

package arena

import (
	"testing"
	"unsafe"
)

type record struct {
	parent int32
	size   [2]float32
	flags  uint8
}

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := New(0); err != ErrSize {
		t.Errorf("New(0) error = %v, want %v", err, ErrSize)
	}
}

func TestAllocAlignment(t *testing.T) {
	a, err := New(256)
	if err != nil {
		t.Fatal(err)
	}
	a.Alloc(3, 1)
	b, ok := a.Alloc(8, 8)
	if !ok {
		t.Fatal("allocation failed")
	}
	if addr := uintptr(unsafe.Pointer(&b[0])); addr%8 != 0 {
		t.Errorf("allocation not aligned: %#x", addr)
	}
}

func TestAllocOverflow(t *testing.T) {
	a, _ := New(16)
	if _, ok := a.Alloc(16, 1); !ok {
		t.Fatal("exact fit refused")
	}
	if _, ok := a.Alloc(1, 1); ok {
		t.Error("allocation beyond capacity succeeded")
	}
	if m := a.Metrics(); m.Overflows != 1 || m.InUse != 16 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestSliceFitsSizeOf(t *testing.T) {
	const n = 100
	a, _ := New(1 + SizeOf[record](n))
	a.Alloc(1, 1)
	s, ok := Slice[record](a, n)
	if !ok {
		t.Fatal("SizeOf underestimated the space needed by Slice")
	}
	if len(s) != n {
		t.Fatalf("len = %d, want %d", len(s), n)
	}
	s[n-1].parent = 7
	if s[0] != (record{}) {
		t.Errorf("slice not zeroed: %+v", s[0])
	}
}

func TestSliceRejectsPointers(t *testing.T) {
	defer func() {
		if err := recover(); err == nil {
			t.Error("Slice of pointer type didn't panic")
		}
	}()
	a, _ := New(64)
	Slice[struct{ s string }](a, 1)
}

func TestResetReuses(t *testing.T) {
	a, _ := New(64)
	b1, _ := a.Alloc(32, 8)
	b1[0] = 42
	a.Reset()
	b2, _ := a.Alloc(32, 8)
	if &b1[0] != &b2[0] {
		t.Error("Reset did not rewind the block")
	}
	if b2[0] != 0 {
		t.Error("reused memory not zeroed")
	}
	if m := a.Metrics(); m.Peak != 32 {
		t.Errorf("peak = %d, want 32", m.Peak)
	}
}

func TestReleaseOnce(t *testing.T) {
	a, _ := New(64)
	a.Release()
	a.Release()
	if !a.Released() {
		t.Fatal("arena not released")
	}
	defer func() {
		if err := recover(); err == nil {
			t.Error("Alloc after Release didn't panic")
		}
	}()
	a.Alloc(1, 1)
}
