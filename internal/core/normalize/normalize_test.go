package normalize

import (
	"testing"

	"danmukit/internal/platform/testkit"
)

func TestFoldsFullwidthSeparator(t *testing.T) {
	n := New()

	if got := n.Normalize("小明：你好"); got != "小明:你好" {
		t.Fatalf("fullwidth separator: %q", got)
	}
}

func TestStripsFormatChars(t *testing.T) {
	n := New()

	// zero-width space and joiner hidden inside a nickname
	if got := n.Normalize("小​红‍"); got != "小红" {
		t.Fatalf("format chars: %q", got)
	}
}

func TestCollapsesSpacesKeepsNewlines(t *testing.T) {
	n := New()

	got := n.Normalize("  小红 \t 送出了 \r\n\n 小心心  ")
	testkit.MustContain(t, got, "\n")
	if got != "小红 送出了\n小心心" {
		t.Fatalf("collapse: %q", got)
	}
}

func TestRepairsInvalidUTF8(t *testing.T) {
	n := New()

	testkit.MustNotPanic(t, func() {
		if got := n.Normalize("ok\xff\xfe好"); got != "ok好" {
			t.Fatalf("utf8 repair: %q", got)
		}
	})
}

func TestEmptyIn(t *testing.T) {
	n := New()

	if got := n.Normalize("   \n  "); got != "" {
		t.Fatalf("blank input: %q", got)
	}
}
