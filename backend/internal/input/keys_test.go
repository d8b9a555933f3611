package input

import (
	"reflect"
	"sync"
	"testing"
)

func TestHeldKeysPressRelease(t *testing.T) {
	h := NewHeldKeys()

	if !h.Press("W") {
		t.Error("первое нажатие должно менять набор")
	}
	if h.Press("w") {
		t.Error("повторное нажатие не должно менять набор")
	}
	if !h.Has("w") {
		t.Error("клавиши хранятся в нижнем регистре")
	}
	if !h.Release("w") || h.Has("w") {
		t.Error("release должен убирать клавишу")
	}
	if h.Release("w") {
		t.Error("release отпущенной клавиши ничего не меняет")
	}
	if h.Press("") {
		t.Error("empty key must be ignored")
	}
}

func TestHeldKeysBlurClearsKeys(t *testing.T) {
	h := NewHeldKeys()
	h.Press("a")
	h.Press("d")

	if !h.Apply(Event{Type: EventBlur}) {
		t.Error("blur with held keys should report change")
	}
	if len(h.Snapshot()) != 0 || h.Focused() {
		t.Errorf("после blur клавиши должны быть отпущены, got %v", h.Snapshot().Keys())
	}

	h.Apply(Event{Type: EventFocus})
	if !h.Focused() {
		t.Error("focus должен вернуть фокус")
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	h := NewHeldKeys()
	h.Press("s")
	snap := h.Snapshot()
	h.Release("s")

	if !snap.Has("s") {
		t.Error("снимок не должен меняться после release")
	}
	if got := snap.Keys(); !reflect.DeepEqual(got, []string{"s"}) {
		t.Errorf("expected [s], got %v", got)
	}
}

func TestHeldKeysConcurrentAccess(t *testing.T) {
	h := NewHeldKeys()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				h.Press("d")
				h.Release("d")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = h.Snapshot().Has("d")
			}
		}()
	}
	wg.Wait()

	if h.Has("d") {
		t.Error("после парных press/release клавиша не должна удерживаться")
	}
}
