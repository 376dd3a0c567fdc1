package containers

import (
	"errors"
	"testing"
)

func TestDequeGrowsAndKeepsOrder(t *testing.T) {
	d := NewDeque[int](2)
	for i := 0; i < 5; i++ {
		d.PushBack(i)
	}
	if d.Len() != 5 {
		t.Fatalf("Len\nhave %d\nwant 5", d.Len())
	}
	for i := 0; i < 5; i++ {
		v, err := d.PopFront()
		if err != nil || v != i {
			t.Fatalf("PopFront #%d\nhave %d, %v\nwant %d", i, v, err, i)
		}
	}
	if _, err := d.PopFront(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("PopFront on empty\nhave %v\nwant %v", err, ErrEmpty)
	}
}

func TestDequeBothEnds(t *testing.T) {
	d := NewDeque[string](1)
	d.PushBack("b")
	d.PushFront("a")
	d.PushBack("c")

	items := d.Items()
	if len(items) != 3 || items[0] != "a" || items[1] != "b" || items[2] != "c" {
		t.Fatalf("Items\nhave %v\nwant [a b c]", items)
	}
	if v, _ := d.PopBack(); v != "c" {
		t.Fatalf("PopBack\nhave %q\nwant c", v)
	}
	if v, _ := d.Peek(); v != "a" {
		t.Fatalf("Peek\nhave %q\nwant a", v)
	}
	d.Clear()
	if !d.IsEmpty() {
		t.Fatal("Clear left elements behind")
	}
}
