package errors

import (
	stderrs "errors"
	"testing"
)

func TestCodeOf(t *testing.T) {
	err := MissingGiftNamef("no name for %q", "小红")
	if !IsCode(err, ErrorCodeMissingGiftName) {
		t.Fatalf("code: %v", CodeOf(err))
	}
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatal("plain error must map to unknown")
	}
	if CodeOf(nil) != ErrorCodeUnknown {
		t.Fatal("nil must map to unknown")
	}
}

func TestCodeLabels(t *testing.T) {
	cases := map[ErrorCode]string{
		ErrorCodeEmptyField:      "empty_field",
		ErrorCodeFiltered:        "filtered",
		ErrorCodeAmbiguousField:  "ambiguous_field",
		ErrorCodeInvalidGift:     "invalid_gift",
		ErrorCodeMissingGiftName: "missing_gift_name",
		ErrorCodeUnknown:         "unknown",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("%d: got %q want %q", code, got, want)
		}
	}
}

func TestWrapPreservesCodeAndCause(t *testing.T) {
	cause := stderrs.New("boom")
	err := Wrap(cause, ErrorCodeInvalidGift, "gift rejected")

	if !IsCode(err, ErrorCodeInvalidGift) {
		t.Fatal("wrap must keep the code")
	}
	if !stderrs.Is(err, cause) {
		t.Fatal("wrap must keep the cause chain")
	}
	if Root(err) != cause {
		t.Fatalf("root: %v", Root(err))
	}
}

func TestWithFieldCopies(t *testing.T) {
	base := EmptyFieldf("blank user")
	tagged := WithField(base, "user")

	e, ok := As(tagged)
	if !ok || e.Field() != "user" {
		t.Fatalf("field: %+v", e)
	}
	if b, _ := As(base); b.Field() != "" {
		t.Fatal("WithField must not mutate the original")
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeUnknown, "x") != nil {
		t.Fatal("nil stays nil")
	}
	if err := WrapIf(stderrs.New("y"), ErrorCodeValidation, "x"); !IsCode(err, ErrorCodeValidation) {
		t.Fatalf("wrapped: %v", err)
	}
}
