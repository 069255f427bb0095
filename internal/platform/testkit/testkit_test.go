package testkit

import (
	"os"
	"testing"
)

var (
	addFn   = func(a, b int) int { return a + b }
	swapInt = 10
)

func TestPanics(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	MustContain(t, "alpha beta gamma", "beta")
}

func TestMustApprox(t *testing.T) {
	MustApprox(t, "density", 4.0/9.0, 0.444, Eps)
	MustApprox(t, "zero", 0, 0, 0)
}

func TestWriteFile(t *testing.T) {
	p := WriteFile(t, "nested/in.csv", "text\nhello\n")
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "text\nhello\n" {
		t.Fatalf("WriteFile roundtrip: %q %v", b, err)
	}
}

func TestSwapRestores(t *testing.T) {
	t.Run("func", func(t *testing.T) {
		Swap(t, &addFn, func(a, b int) int { return 99 })
		if got := addFn(1, 2); got != 99 {
			t.Fatalf("swap did not take effect, got %d", got)
		}
	})
	if got := addFn(1, 2); got != 3 {
		t.Fatalf("swap did not restore original, got %d", got)
	}

	t.Run("int", func(t *testing.T) {
		Swap(t, &swapInt, 42)
		if swapInt != 42 {
			t.Fatalf("swap failed, got %d", swapInt)
		}
	})
	if swapInt != 10 {
		t.Fatalf("swap did not restore original, got %d", swapInt)
	}
}

func TestSerial(t *testing.T) {
	t.Run("a", func(t *testing.T) { Serial(t) })
	t.Run("b", func(t *testing.T) { Serial(t) })
}
