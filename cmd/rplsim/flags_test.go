package main

import (
	"flag"
	"io"
	"testing"
)

func TestUint32Flag(t *testing.T) {
	var v uint32Value
	if err := v.Set("4294967295"); err != nil || v != 4294967295 {
		t.Fatalf("expected the largest uint32 to be accepted, got %d, %v", v, err)
	}
	for _, bad := range []string{"4294967296", "-1", "ten"} {
		if err := v.Set(bad); err == nil {
			t.Fatalf("%q should be rejected", bad)
		}
	}
	if v != 4294967295 {
		t.Fatalf("a rejected value must not change the flag, got %d", v)
	}
}

func TestUint32FlagOnCommandLine(t *testing.T) {
	fs := flag.NewFlagSet("rplsim", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var attempts uint32Value
	fs.Var(&attempts, "attempts", "")
	if err := fs.Parse([]string{"-attempts", "4294967296"}); err == nil {
		t.Fatal("an attempt count above the uint32 range should fail to parse")
	}
	if err := fs.Parse([]string{"-attempts", "25"}); err != nil || attempts != 25 {
		t.Fatalf("expected 25, got %d, %v", attempts, err)
	}
}
