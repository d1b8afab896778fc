package rag

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FollowUpCount is the number of follow-up questions every answer ends with.
const FollowUpCount = 3

var (
	followUpPattern = regexp.MustCompile(`<<([^<>]+)>>`)
	citationPattern = regexp.MustCompile(`^\[(\d+)\]\s*(.*?)\s*\[\[([^\[\]]+)\]\]$`)
	markerPattern   = regexp.MustCompile(`\[(\d+)\]`)
)

// ParseAnswer splits generated text into body, citations and follow-up questions.
// Text that does not follow the format yields an Answer with empty parts
// rather than an error; use Validate to check the format.
func ParseAnswer(text string) Answer {
	var answer Answer

	for _, m := range followUpPattern.FindAllStringSubmatch(text, -1) {
		if q := strings.TrimSpace(m[1]); q != "" {
			answer.FollowUps = append(answer.FollowUps, q)
		}
	}
	text = followUpPattern.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	block := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.EqualFold(strings.TrimSpace(lines[i]), "Citations:") {
			block = i
			break
		}
	}
	if block < 0 {
		answer.Body = strings.TrimSpace(text)
		return answer
	}

	answer.Body = strings.TrimSpace(strings.Join(lines[:block], "\n"))
	for _, line := range lines[block+1:] {
		m := citationPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		answer.Citations = append(answer.Citations, Citation{Number: n, Title: m[2], PostID: strings.TrimSpace(m[3])})
	}
	return answer
}

// Markers returns the distinct citation numbers used in the body, in order of first use.
func (a Answer) Markers() []int {
	seen := make(map[int]bool)
	var numbers []int
	for _, m := range markerPattern.FindAllStringSubmatch(a.Body, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers
}

// IsFallback reports whether the body is the insufficient-context reply.
func (a Answer) IsFallback() bool {
	return strings.Contains(a.Body, FallbackAnswer)
}

// Validate checks the answer format: one citation number per post and one
// post per number, every marker in the body listed in the citation block, and
// exactly FollowUpCount follow-up questions.
func (a Answer) Validate() error {
	numberByPost := make(map[string]int)
	postByNumber := make(map[int]string)
	for _, c := range a.Citations {
		if n, ok := numberByPost[c.PostID]; ok && n != c.Number {
			return fmt.Errorf("post %s is cited as both [%d] and [%d]", c.PostID, n, c.Number)
		}
		if p, ok := postByNumber[c.Number]; ok && p != c.PostID {
			return fmt.Errorf("citation [%d] refers to both %s and %s", c.Number, p, c.PostID)
		}
		numberByPost[c.PostID] = c.Number
		postByNumber[c.Number] = c.PostID
	}

	for _, n := range a.Markers() {
		if _, ok := postByNumber[n]; !ok {
			return fmt.Errorf("citation [%d] is used but not listed", n)
		}
	}

	if len(a.FollowUps) != FollowUpCount {
		return fmt.Errorf("expected %d follow-up questions, got %d", FollowUpCount, len(a.FollowUps))
	}
	return nil
}
