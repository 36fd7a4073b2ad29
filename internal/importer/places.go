// Package importer turns a scraped WhatsApp group log into ride
// listings. The community the board serves grew out of a WhatsApp
// group; its message archive is the board's seed data. Messages are
// classified as ride-related or general chatter, origin and destination
// are resolved against a place synonym table, and travel date and time
// are pulled out of the free text. Imported rides carry no createdBy
// and are therefore immutable through the API.
package importer

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Places resolves the many names a place goes by in chat ("nyc",
// "new york city") to one canonical name. The backing file has one
// place per line in the form "canonical = synonym = synonym"; the
// canonical name counts as its own synonym.
type Places struct {
	syns  []placeSyn // longest synonym first, so "state college" wins over "state"
	canon map[string]string
}

type placeSyn struct {
	re        *regexp.Regexp
	canonical string
}

// LoadPlaces reads a place synonym file. Blank lines are skipped;
// names are lowercased and trimmed.
func LoadPlaces(path string) (*Places, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read places %s: %w", path, err)
	}
	p := &Places{canon: make(map[string]string)}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "=")
		canonical := strings.ToLower(strings.TrimSpace(parts[0]))
		if canonical == "" {
			continue
		}
		for _, part := range parts {
			syn := strings.ToLower(strings.TrimSpace(part))
			if syn == "" {
				continue
			}
			p.canon[syn] = canonical
		}
	}

	syns := make([]string, 0, len(p.canon))
	for s := range p.canon {
		syns = append(syns, s)
	}
	sort.Slice(syns, func(i, j int) bool {
		if len(syns[i]) != len(syns[j]) {
			return len(syns[i]) > len(syns[j])
		}
		return syns[i] < syns[j]
	})
	for _, s := range syns {
		p.syns = append(p.syns, placeSyn{
			re:        regexp.MustCompile(`\b` + regexp.QuoteMeta(s) + `\b`),
			canonical: p.canon[s],
		})
	}
	return p, nil
}

// Match reports the canonical place named in text, if any. Synonyms are
// matched as whole words, longest first.
func (p *Places) Match(text string) (string, bool) {
	for _, syn := range p.syns {
		if syn.re.MatchString(text) {
			return syn.canonical, true
		}
	}
	return "", false
}

// FoundIn returns every canonical place mentioned in text, ordered by
// first appearance. A place named through several synonyms appears once.
func (p *Places) FoundIn(text string) []string {
	first := make(map[string]int)
	for _, syn := range p.syns {
		loc := syn.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if at, ok := first[syn.canonical]; !ok || loc[0] < at {
			first[syn.canonical] = loc[0]
		}
	}
	out := make([]string, 0, len(first))
	for canonical := range first {
		out = append(out, canonical)
	}
	sort.Slice(out, func(i, j int) bool { return first[out[i]] < first[out[j]] })
	return out
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// normalizeText lowercases a message and strips everything that is not
// a letter, digit or space, so punctuation never hides a place name.
func normalizeText(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}
