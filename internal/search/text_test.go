// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "testing"

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"&lt;b&gt;", "<b>"},
		{"&quot;quoted&quot;", `"quoted"`},
		{"it&#39;s &#x27;fine&#x27; &apos;ok&apos;", "it's 'fine' 'ok'"},
		{"a&nbsp;b", "a b"},
		{"path&#x2F;to", "path/to"},
		{"&copy; 2026", "&copy; 2026"},
	}
	for _, tt := range tests {
		if got := decodeEntities(tt.in); got != tt.want {
			t.Errorf("decodeEntities(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanText(t *testing.T) {
	got := cleanText("  Go is an <b>open   source</b>\n language &amp; more ")
	if want := "Go is an open source language & more"; got != want {
		t.Errorf("cleanText = %q, want %q", got, want)
	}
}

func TestCollapseSpaceLeavesEntitiesAlone(t *testing.T) {
	got := collapseSpace(" AT&amp;T\n <b>  tags ")
	if want := "AT&amp;T <b> tags"; got != want {
		t.Errorf("collapseSpace = %q, want %q", got, want)
	}
}

func TestResolveResultURL(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"redirect", "//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fdoc%2F&rut=x", "https://go.dev/doc/"},
		{"redirect with encoded amp", "/l/?uddg=https%3A%2F%2Fgo.dev%2F&amp;rut=x", "https://go.dev/"},
		{"protocol relative", "//example.com/a", "https://example.com/a"},
		{"plain", "https://example.com", "https://example.com"},
		{"javascript", "javascript:void(0)", ""},
		{"relative", "/settings", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveResultURL(tt.in); got != tt.want {
				t.Errorf("resolveResultURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsSelfLink(t *testing.T) {
	if !isSelfLink("https://duckduckgo.com/y.js?ad=1") {
		t.Error("duckduckgo.com should be a self link")
	}
	if !isSelfLink("https://html.duckduckgo.com/html/") {
		t.Error("subdomain should be a self link")
	}
	if isSelfLink("https://notduckduckgo.com/") {
		t.Error("lookalike host is not a self link")
	}
}
