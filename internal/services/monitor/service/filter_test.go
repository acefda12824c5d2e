package service

import "testing"

func TestFilterAdmitsStrangers(t *testing.T) {
	f := NewChatFilter("主播本人", []string{"小号一", "小号二"})

	if !f.Admit("路人甲", "你好") {
		t.Fatal("stranger must be admitted")
	}
}

func TestFilterRejectsBlank(t *testing.T) {
	f := NewChatFilter("", nil)

	if f.Admit("", "hi") || f.Admit("  ", "hi") || f.Admit("u", "") || f.Admit("u", "  ") {
		t.Fatal("blank user or content must be rejected")
	}
}

func TestFilterRejectsSelf(t *testing.T) {
	f := NewChatFilter("主播本人", nil)

	if f.Admit("主播本人", "测试") {
		t.Fatal("self must be rejected")
	}
	// only the exact trimmed nickname counts as self
	if !f.Admit("主播本人2", "测试") {
		t.Fatal("near-self user must be admitted")
	}
}

func TestFilterAltRules(t *testing.T) {
	f := NewChatFilter("", []string{" 直播小号 "})

	// exact
	if f.Admit("直播小号", "hi") {
		t.Fatal("exact alt must be rejected")
	}
	// user is a prefix of the trimmed alt
	if f.Admit("直播", "hi") {
		t.Fatal("prefix-of-alt user must be rejected")
	}
	// trimmed alt is a substring of the user
	if f.Admit("我是直播小号哦", "hi") {
		t.Fatal("alt-containing user must be rejected")
	}
	if !f.Admit("别的观众", "hi") {
		t.Fatal("unrelated user must be admitted")
	}
}

func TestFilterRuntimeReplace(t *testing.T) {
	f := NewChatFilter("旧主播", nil)

	f.SetSelf("新主播")
	if !f.Admit("旧主播", "hi") {
		t.Fatal("replaced self must no longer filter")
	}
	if f.Admit("新主播", "hi") {
		t.Fatal("new self must filter")
	}

	f.SetAlts([]string{"新小号"})
	if f.Admit("新小号", "hi") {
		t.Fatal("new alt must filter")
	}
	f.SetAlts(nil)
	if !f.Admit("新小号", "hi") {
		t.Fatal("cleared alts must admit")
	}
}
