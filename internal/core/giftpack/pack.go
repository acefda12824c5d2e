// Package giftpack loads and compiles the overlay vocabulary from the
// embedded gifts.json. It prepares gift name tables, archetype keyword sets
// and realtime phrase patterns for the classifier and extractor
package giftpack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

//go:embed gifts.json
var embedded []byte

type rawArchetype struct {
	Keywords []string `json:"keywords"`
	Name     string   `json:"name"`
}

type rawRealtime struct {
	Info    string `json:"info"`
	Pattern string `json:"pattern"`
}

type rawPack struct {
	Version        int            `json:"version"`
	Meta           map[string]any `json:"meta"`
	Verbs          []string       `json:"verbs"`
	CurrencyUnit   string         `json:"currency_unit"`
	Names          []string       `json:"names"`
	Archetypes     []rawArchetype `json:"archetypes"`
	Realtime       []rawRealtime  `json:"realtime"`
	ListSignatures []string       `json:"list_signatures"`
	ChromeKeywords []string       `json:"chrome_keywords"`
	InvalidUsers   []string       `json:"invalid_users"`
	EnteredMarker  string         `json:"entered_marker"`
	LikeCountLabel string         `json:"like_count_label"`
}

// Archetype describes a gift family by its defining keywords.
// A candidate fragment matches when it contains at least half of the keywords
type Archetype struct {
	Keywords []string
	Name     string
}

// RealtimeRule maps a phrase pattern to a realtime info type
type RealtimeRule struct {
	Info    string
	Pattern *regexp.Regexp
}

// Pack represents the compiled overlay vocabulary
type Pack struct {
	Version int
	Meta    map[string]any

	// Gift verbs ordered most-specific first (送出了 before 送出 before 送)
	Verbs []string

	// Names sorted longest-first so compound names win over their substrings
	Names   []string
	NameSet map[string]struct{}

	Archetypes []Archetype

	// Realtime phrase rules in declaration order (order is the tie-break)
	Realtime []RealtimeRule

	// Signatures of the gift purchase list (page chrome, never events)
	ListSignatures []*regexp.Regexp
	CurrencyUnit   string

	// Page structure keywords; blocks carrying them are containers
	ChromeKeywords []string

	// Values that can never be a user name (page chrome fragments)
	InvalidUsers []string

	// Marker that tags an entered-room line misfiled as chat content
	EnteredMarker string

	// Label attached to the session like counter on the panel
	LikeCountLabel string
}

// Load parses and compiles the embedded pack
func Load() (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(embedded, &rp); err != nil {
		return nil, fmt.Errorf("giftpack: parse gifts.json: %w", err)
	}
	if rp.Version == 0 {
		return nil, fmt.Errorf("giftpack: missing version")
	}
	if len(rp.Names) == 0 || len(rp.Verbs) == 0 {
		return nil, fmt.Errorf("giftpack: empty names or verbs")
	}

	p := &Pack{
		Version:        rp.Version,
		Meta:           rp.Meta,
		Verbs:          rp.Verbs,
		CurrencyUnit:   rp.CurrencyUnit,
		ChromeKeywords: rp.ChromeKeywords,
		InvalidUsers:   rp.InvalidUsers,
		EnteredMarker:  rp.EnteredMarker,
		LikeCountLabel: rp.LikeCountLabel,
	}

	p.Names = make([]string, 0, len(rp.Names))
	p.NameSet = make(map[string]struct{}, len(rp.Names))
	for _, n := range rp.Names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := p.NameSet[n]; dup {
			continue
		}
		p.NameSet[n] = struct{}{}
		p.Names = append(p.Names, n)
	}
	sort.SliceStable(p.Names, func(i, j int) bool {
		return len(p.Names[i]) > len(p.Names[j])
	})

	for _, a := range rp.Archetypes {
		if a.Name == "" || len(a.Keywords) == 0 {
			return nil, fmt.Errorf("giftpack: archetype %q missing keywords", a.Name)
		}
		p.Archetypes = append(p.Archetypes, Archetype{Keywords: a.Keywords, Name: a.Name})
	}

	for _, r := range rp.Realtime {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("giftpack: realtime pattern %q: %w", r.Pattern, err)
		}
		p.Realtime = append(p.Realtime, RealtimeRule{Info: r.Info, Pattern: re})
	}

	for _, s := range rp.ListSignatures {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("giftpack: list signature %q: %w", s, err)
		}
		p.ListSignatures = append(p.ListSignatures, re)
	}

	return p, nil
}

// KnownName reports whether s exactly matches a curated gift name
func (p *Pack) KnownName(s string) bool {
	_, ok := p.NameSet[s]
	return ok
}

// FindName returns the longest curated gift name contained in s, if any
func (p *Pack) FindName(s string) (string, bool) {
	for _, n := range p.Names {
		if strings.Contains(s, n) {
			return n, true
		}
	}
	return "", false
}

// CountNames returns how many distinct curated names occur in s.
// Stops early at limit to keep chrome checks cheap
func (p *Pack) CountNames(s string, limit int) int {
	n := 0
	for _, name := range p.Names {
		if strings.Contains(s, name) {
			n++
			if n >= limit {
				return n
			}
		}
	}
	return n
}

// MatchArchetype resolves a fragment to a gift family when it contains at
// least half (rounded up) of one archetype's defining keywords
func (p *Pack) MatchArchetype(s string) (string, bool) {
	for _, a := range p.Archetypes {
		matched := 0
		for _, kw := range a.Keywords {
			if strings.Contains(s, kw) {
				matched++
			}
		}
		need := (len(a.Keywords) + 1) / 2
		if matched >= need {
			return a.Name, true
		}
	}
	return "", false
}

// HasChrome reports whether s carries any page structure keyword
func (p *Pack) HasChrome(s string) bool {
	for _, kw := range p.ChromeKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// PlausibleUser rejects values that are page chrome or bare numbers
func (p *Pack) PlausibleUser(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || len([]rune(s)) > 50 {
		return false
	}
	for _, iv := range p.InvalidUsers {
		if s == iv {
			return false
		}
	}
	allDigits := true
	for _, r := range s {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	return !allDigits
}
