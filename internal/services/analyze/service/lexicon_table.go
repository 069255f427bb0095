package service

import "attractor/internal/services/analyze/domain"

// lexiconTable totals category hits over every token of the corpus. It always
// counts occurrences, whatever the scoring mode
func (s *Service) lexiconTable(all []scored) ([]domain.CategoryTotal, int) {
	p := s.lx.Profile
	hits := make(map[string]map[string]int, len(p.Categories))
	for _, c := range p.Categories {
		hits[c.Name] = map[string]int{}
	}
	total := 0
	for _, sc := range all {
		total += len(sc.tokens)
		for _, tok := range sc.tokens {
			for _, cat := range s.lx.Scorer.Lookup(tok) {
				hits[cat][tok]++
			}
		}
	}

	out := make([]domain.CategoryTotal, len(p.Categories))
	for i, c := range p.Categories {
		n := 0
		for _, v := range hits[c.Name] {
			n += v
		}
		out[i] = domain.CategoryTotal{
			Category:  c.Name,
			Terms:     len(c.Terms),
			Tokens:    n,
			Share:     ratio(float64(n), total),
			TopTokens: topWords(hits[c.Name], p.Report.LexiconTopTokens),
		}
	}
	return out, total
}
