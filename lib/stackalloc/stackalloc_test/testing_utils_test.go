package stackalloc_test

import (
	"fmt"
	"runtime/debug"
	"testing"
)

func expect(condition bool, msg string, args ...interface{}) {
	if !condition {
		fmt.Printf(msg, args...)
		fmt.Printf("\n")
		panic("assertion failed")
	}
}

func failOnError(t *testing.T, e error) {
	if e != nil {
		t.Error(e)
		debug.PrintStack()
		t.FailNow()
	}
}

type vertex struct {
	X, Y, Z float32
	Index   uint32
}
