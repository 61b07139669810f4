package story

import (
	"fmt"
	"regexp"
)

// Twine-style link spellings:
//
//	[[passage name]]
//	[[display text|passage name]]
//	[[display text->passage name]]
var linkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// Links returns the target passage names of all outgoing links in text.
func Links(text string) []string {
	matches := linkPattern.FindAllStringSubmatch(text, -1)
	var targets []string
	for _, m := range matches {
		targets = append(targets, linkTarget(m[1]))
	}
	return targets
}

func linkTarget(inner string) string {
	for i := 0; i+1 < len(inner); i++ {
		if inner[i] == '-' && inner[i+1] == '>' {
			return inner[i+2:]
		}
	}
	for i := 0; i < len(inner); i++ {
		if inner[i] == '|' {
			return inner[i+1:]
		}
	}
	return inner
}

// IncomingLinkPatterns compiles the three spellings referencing the target
// name. Regex metacharacters in the name are escaped before matching.
func IncomingLinkPatterns(targetName string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(targetName)
	return []*regexp.Regexp{
		regexp.MustCompile(fmt.Sprintf(`\[\[%s\]\]`, quoted)),
		regexp.MustCompile(fmt.Sprintf(`\[\[[^\]|]+\|%s\]\]`, quoted)),
		regexp.MustCompile(fmt.Sprintf(`\[\[[^\]>]+->%s\]\]`, quoted)),
	}
}

// LinksTo reports whether text contains a link to the named passage in any
// of the three spellings.
func LinksTo(text, targetName string) bool {
	for _, pattern := range IncomingLinkPatterns(targetName) {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// IncomingPassages returns the passages whose text links to the named
// passage.
func (s *Story) IncomingPassages(targetName string) []*Passage {
	var incoming []*Passage
	for _, p := range s.Passages {
		if LinksTo(p.Text, targetName) {
			incoming = append(incoming, p)
		}
	}
	return incoming
}
