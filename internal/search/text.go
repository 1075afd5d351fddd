// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"net/url"
	"regexp"
	"strings"
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
	"&#x27;", "'",
	"&#x2F;", "/",
	"&apos;", "'",
)

// decodeEntities decodes the entities upstream result pages use. Anything
// else that looks like an entity is left as written.
func decodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// cleanText strips tags, decodes entities and collapses whitespace. It is
// for raw markup; text a parser already decoded goes through collapseSpace.
func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	return collapseSpace(decodeEntities(s))
}

// collapseSpace trims s and folds every whitespace run to one space.
func collapseSpace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// resolveResultURL unwraps DuckDuckGo's /l/?uddg= redirect links and makes
// protocol-relative links absolute. It returns "" for anything that is not
// an http(s) URL.
func resolveResultURL(raw string) string {
	raw = strings.TrimSpace(decodeEntities(raw))
	if strings.Contains(raw, "uddg=") {
		if u, err := url.Parse(absolute(raw)); err == nil {
			if target := u.Query().Get("uddg"); target != "" {
				raw = target
			}
		}
	}
	raw = absolute(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return ""
	}
	return raw
}

func absolute(raw string) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	return raw
}

// isSelfLink reports whether u points back into DuckDuckGo itself (ads,
// settings, more-results links).
func isSelfLink(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return true
	}
	host := strings.ToLower(parsed.Hostname())
	return host == "duckduckgo.com" || strings.HasSuffix(host, ".duckduckgo.com")
}
