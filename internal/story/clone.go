package story

// Clone returns a deep copy of a passage.
func (p *Passage) Clone() *Passage {
	cp := *p
	if p.Tags != nil {
		cp.Tags = append([]string(nil), p.Tags...)
	}
	return &cp
}

// Clone returns a deep copy of a story.
func (s *Story) Clone() *Story {
	cs := *s
	if s.Tags != nil {
		cs.Tags = append([]string(nil), s.Tags...)
	}
	cs.Passages = make([]*Passage, 0, len(s.Passages))
	for _, p := range s.Passages {
		cs.Passages = append(cs.Passages, p.Clone())
	}
	return &cs
}
