package ingest

// linkSet is the per-feed, per-run set of links already stored.
// It's loaded from the store and extended with links created during the run.
type linkSet map[string]struct{}

func newLinkSet(links []string) linkSet {
	res := make(linkSet, len(links))
	for _, l := range links {
		res.add(l)
	}
	return res
}

func (s linkSet) has(link string) bool {
	_, ok := s[link]
	return ok
}

func (s linkSet) add(link string) {
	s[link] = struct{}{}
}
