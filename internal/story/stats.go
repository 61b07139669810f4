package story

import "strings"

type StoryStats struct {
	Passages    int `json:"passages"`
	Words       int `json:"words"`
	Characters  int `json:"characters"`
	Links       int `json:"links"`
	BrokenLinks int `json:"brokenLinks"`
}

// Stats computes aggregate counts over a story. A link is broken when its
// target name matches no passage.
func (s *Story) Stats() StoryStats {
	stats := StoryStats{Passages: len(s.Passages)}

	names := make(map[string]struct{}, len(s.Passages))
	for _, p := range s.Passages {
		names[p.Name] = struct{}{}
	}

	for _, p := range s.Passages {
		stats.Characters += len(p.Text)
		stats.Words += len(strings.Fields(p.Text))
		for _, target := range Links(p.Text) {
			stats.Links++
			if _, ok := names[target]; !ok {
				stats.BrokenLinks++
			}
		}
	}
	return stats
}
