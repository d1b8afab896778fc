package storage

import (
	"encoding/binary"
	"math"
	"sort"
	"strings"
	"unicode"
)

// termSaturation dampens repeated hits of the same term within a document.
const termSaturation = 1.2

var textStopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {},
	"as": {}, "at": {}, "be": {}, "been": {}, "before": {}, "but": {}, "by": {}, "can": {}, "could": {},
	"did": {}, "do": {}, "does": {}, "for": {}, "from": {}, "had": {}, "has": {}, "have": {}, "he": {},
	"her": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {}, "into": {}, "is": {}, "it": {},
	"its": {}, "me": {}, "my": {}, "no": {}, "not": {}, "of": {}, "on": {}, "or": {}, "our": {},
	"she": {}, "should": {}, "so": {}, "than": {}, "that": {}, "the": {}, "their": {}, "them": {},
	"then": {}, "there": {}, "these": {}, "they": {}, "this": {}, "to": {}, "was": {}, "we": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {}, "will": {},
	"with": {}, "would": {}, "you": {}, "your": {},
}

// queryTerms lowercases text, splits it on anything that is not a letter or
// digit, and drops stopwords and duplicates. Order of first occurrence is kept.
func queryTerms(text string) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tokens))
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := textStopwords[token]; isStop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		terms = append(terms, token)
	}
	if len(terms) == 0 {
		return nil
	}
	return terms
}

func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	return strings.Fields(builder.String())
}

// anyTermQuery builds an FTS expression matching documents with at least one term.
func anyTermQuery(terms []string) string {
	return joinQuoted(terms, " OR ")
}

// allTermsQuery builds an FTS expression matching documents with every term.
func allTermsQuery(terms []string) string {
	return joinQuoted(terms, " ")
}

// joinQuoted quotes each term so user input can never be read as FTS syntax.
func joinQuoted(terms []string, sep string) string {
	if len(terms) == 0 {
		return ""
	}
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + term + `"`
	}
	return strings.Join(quoted, sep)
}

// decodeMatchInfo converts the matchinfo blob into its 32-bit values.
func decodeMatchInfo(blob []byte) []uint32 {
	values := make([]uint32, len(blob)/4)
	for i := range values {
		values[i] = binary.NativeEndian.Uint32(blob[i*4:])
	}
	return values
}

// relevance scores a row from matchinfo('pcnx') output.
// The score is the fraction of query terms present in the row (coverage)
// times the sum of saturated term frequencies weighted by inverse document frequency.
func relevance(info []uint32) float64 {
	if len(info) < 3 {
		return 0
	}
	phrases, columns, rows := int(info[0]), int(info[1]), float64(info[2])
	hits := info[3:]
	if phrases == 0 || columns == 0 || len(hits) < 3*phrases*columns {
		return 0
	}

	var matched int
	var weighted float64
	for p := 0; p < phrases; p++ {
		present := false
		for c := 0; c < columns; c++ {
			base := 3 * (p*columns + c)
			inRow, docsWithHits := float64(hits[base]), float64(hits[base+2])
			if inRow == 0 || docsWithHits == 0 {
				continue
			}
			present = true
			idf := math.Log(1 + rows/docsWithHits)
			weighted += idf * inRow / (inRow + termSaturation)
		}
		if present {
			matched++
		}
	}

	coverage := float64(matched) / float64(phrases)
	return coverage * weighted
}

type scoredDocument struct {
	id    string
	score float64
}

// rankByScore orders documents by descending score and assigns ranks the way
// SQL RANK() does: equal scores share a rank and the next rank skips ahead.
// Equal scores are ordered by ID so results are stable.
func rankByScore(docs []scoredDocument, limit int) []RankedChunk {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].score != docs[j].score {
			return docs[i].score > docs[j].score
		}
		return docs[i].id < docs[j].id
	})

	if limit > len(docs) {
		limit = len(docs)
	}

	ranked := make([]RankedChunk, 0, limit)
	for i := 0; i < limit; i++ {
		rank := i + 1
		if i > 0 && docs[i].score == docs[i-1].score {
			rank = ranked[i-1].Rank
		}
		ranked = append(ranked, RankedChunk{ChunkID: docs[i].id, Rank: rank})
	}
	return ranked
}
