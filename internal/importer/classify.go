package importer

import (
	"regexp"
	"strings"

	"github.com/anveshk/rideshare-board/internal/model"
)

// Categories assigned to scraped messages. Only ride messages become
// board listings.
const (
	CategoryRide    = "ride"
	CategoryGeneral = "general"
)

// Classifier decides whether a message is about a ride and extracts its
// route. Home is the canonical place implied as the origin of messages
// that only name a destination ("anyone driving to nyc?") — the group's
// members all live in one town, so a bare destination means "from here".
type Classifier struct {
	Places *Places
	Home   string
}

// Route is the classification outcome for one message. From and To are
// canonical place names, set only when Category is "ride".
type Route struct {
	Category string
	From     string
	To       string
}

var (
	wordTo   = regexp.MustCompile(`\bto\b`)
	wordFrom = regexp.MustCompile(`\bfrom\b`)
)

// Classify labels a message. An explicit origin/destination pair wins;
// failing that, "from"+"to" keywords with at least two known places, or
// a bare "to" with one known place and the home place implied as
// origin, still count as a ride. Everything else is general chatter.
func (c *Classifier) Classify(message string) Route {
	text := normalizeText(message)

	if from, to := c.extractPair(text); from != "" {
		return Route{Category: CategoryRide, From: from, To: to}
	}

	found := c.Places.FoundIn(text)
	hasTo := wordTo.MatchString(text)
	hasFrom := wordFrom.MatchString(text)

	if hasTo && hasFrom && len(found) >= 2 {
		return Route{Category: CategoryRide, From: found[0], To: found[1]}
	}
	if hasTo && !hasFrom {
		for _, dest := range found {
			if dest != c.Home {
				return Route{Category: CategoryRide, From: c.Home, To: dest}
			}
		}
	}
	return Route{Category: CategoryGeneral}
}

// extractPair scans for an explicit route: "from X to Y" or "X to Y",
// with X and Y phrases of up to three words matched against the place
// table. Both returns are empty when no pair is found.
func (c *Classifier) extractPair(text string) (string, string) {
	words := strings.Fields(text)
	for i, w := range words {
		switch {
		case w == "from":
			src, srcEnd := c.matchAfter(words, i+1)
			if src == "" {
				continue
			}
			for j := srcEnd; j < len(words); j++ {
				if words[j] != "to" {
					continue
				}
				if dst, _ := c.matchAfter(words, j+1); dst != "" && dst != src {
					return src, dst
				}
			}
		case w == "to" && i > 0:
			dst, _ := c.matchAfter(words, i+1)
			if dst == "" {
				continue
			}
			if src := c.matchBefore(words, i); src != "" && src != dst {
				return src, dst
			}
		}
	}
	return "", ""
}

// matchAfter tries the windows words[start:start+k] for k = 1..3 and
// returns the first canonical place match plus the index just past the
// matched window.
func (c *Classifier) matchAfter(words []string, start int) (string, int) {
	for k := 1; k <= 3 && start+k <= len(words); k++ {
		if canon, ok := c.Places.Match(strings.Join(words[start:start+k], " ")); ok {
			return canon, start + k
		}
	}
	return "", start
}

// matchBefore tries the windows words[end-k:end] for k = 1..3.
func (c *Classifier) matchBefore(words []string, end int) string {
	for k := 1; k <= 3 && end-k >= 0; k++ {
		if canon, ok := c.Places.Match(strings.Join(words[end-k:end], " ")); ok {
			return canon
		}
	}
	return ""
}

// Phrase lists that split ride messages into the two board types.
// Offers are checked first.
var (
	offerPhrases = []string{"offering", "available", "can give", "have space", "driving to", "ride from"}
	seekPhrases  = []string{"anyone going", "looking for", "need a ride", "anyone driving", "want to join", "ride to"}
)

// RideType classifies a ride message as offering or seeking. A message
// matching neither list defaults to seeking: a listing must be one of
// the two types, and an unclassifiable group message usually asks for a
// ride rather than offers one.
func RideType(message string) string {
	msg := strings.ToLower(message)
	for _, p := range offerPhrases {
		if strings.Contains(msg, p) {
			return model.RideTypeOffering
		}
	}
	for _, p := range seekPhrases {
		if strings.Contains(msg, p) {
			return model.RideTypeSeeking
		}
	}
	return model.RideTypeSeeking
}
