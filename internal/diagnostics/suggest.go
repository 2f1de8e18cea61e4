package diagnostics

import "sort"

// damerauLevenshtein computes the Damerau-Levenshtein edit distance between
// a and b (insertions, deletions, substitutions, and adjacent transpositions
// all cost 1), per spec §4.9.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// d[i][j] = distance between ra[:i] and rb[:j].
	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := d[i-2][j-2] + 1; t < best {
					best = t
				}
			}
			d[i][j] = best
		}
	}
	return d[la][lb]
}

func threshold(name string) int {
	n := len([]rune(name)) / 3
	if n < 1 {
		n = 1
	}
	return n
}

// Suggestions returns every candidate within edit distance
// max(1, len(name)/3) of name, nearest first, matching spec §4.3/§4.9's
// "did you mean?" contract.
func Suggestions(name string, candidates []string) []string {
	type scored struct {
		name string
		dist int
	}
	max := threshold(name)
	var matches []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		dist := damerauLevenshtein(name, c)
		if dist <= max {
			matches = append(matches, scored{c, dist})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// DidYouMean formats the single best suggestion as a help note, or ""
// if there is no sufficiently close candidate.
func DidYouMean(name string, candidates []string) string {
	s := Suggestions(name, candidates)
	if len(s) == 0 {
		return ""
	}
	return "did you mean: " + s[0] + "?"
}
