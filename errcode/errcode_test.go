package errcode

import (
	"errors"
	"testing"
)

func TestCodeIsError(t *testing.T) {
	var err error = Busy
	if err.Error() != "busy" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if Of(err) != Busy {
		t.Fatalf("Of lost the code: %v", Of(err))
	}
}

func TestOfWrapped(t *testing.T) {
	base := errors.New("pwm slice already claimed")
	err := Wrap(PinInUse, "servo.configure", base)

	if Of(err) != PinInUse {
		t.Fatalf("expected pin_in_use, got %v", Of(err))
	}
	if !errors.Is(err, base) {
		t.Fatal("wrapped cause lost")
	}
}

func TestErrorsIsMatchesCode(t *testing.T) {
	err := Wrap(Busy, "press.control", errors.New("cycle running"))
	if !errors.Is(err, Busy) {
		t.Fatal("wrapped code should match its Code with errors.Is")
	}
	if errors.Is(err, Timeout) {
		t.Fatal("mismatched code must not match")
	}

	// Of reads the outermost code; errors.Is still finds inner ones.
	outer := Wrap(HWFailure, "platform.servo", err)
	if Of(outer) != HWFailure {
		t.Fatalf("outermost code lost: %v", Of(outer))
	}
	if !errors.Is(outer, Busy) {
		t.Fatal("inner code lost through double wrap")
	}
}

func TestOfDefaults(t *testing.T) {
	if Of(nil) != OK {
		t.Fatal("nil should map to ok")
	}
	if Of(errors.New("anything")) != Error {
		t.Fatal("foreign errors should map to the generic code")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(HWFailure, "noop", nil) != nil {
		t.Fatal("wrapping nil should stay nil")
	}
}
