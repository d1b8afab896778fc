package rag

import (
	"strings"
)

// FallbackAnswer is the phrase the model uses when the context cannot answer the question.
const FallbackAnswer = "I don't know based on the available posts."

// SystemPrompt constrains the model to the supplied posts and fixes the answer format
// that ParseAnswer reads.
const SystemPrompt = `You are an assistant that answers questions using posts from a discussion forum where users ask questions and receive answers. Be brief.

Use ONLY the posts in the context to form your answer. If the context does not contain enough information, reply exactly with: "` + FallbackAnswer + `" Do not answer from outside knowledge.

If asking a clarifying question would help, ask it.

Each post in the context has a Post ID, a Title and a Body. Cite every fact you use with a numbered marker such as [1]. Assign one number per distinct Post ID: facts taken from the same Post ID share the same number, and different Post IDs never share a number. Number posts in the order you first cite them, starting at 1.

After the answer, add a line containing only "Citations:" followed by one line per number you used, in the form:
[1] Post title [[post_id]]

Finally, generate exactly 3 very brief follow-up questions the user would likely ask next. Put each one on its own line enclosed in double angle brackets, for example:
<<Which orchestrator handles backfills best?>>
<<How do you test incremental models?>>
<<What does a small team need for data quality?>>
Do not repeat questions that have already been asked. Make sure the last question ends with ">>".`

// BuildPrompt renders the user message: the question followed by one block per source.
func BuildPrompt(question string, sources []Source) string {
	var b strings.Builder
	b.WriteString("Based on the following context, answer the user's question.\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nContext:\n\n")

	for _, src := range sources {
		b.WriteString("Post ID: ")
		b.WriteString(src.PostID)
		b.WriteString("\nTitle: ")
		b.WriteString(src.Title)
		b.WriteString("\nBody: ")
		b.WriteString(stripTitle(src.Content, src.Title))
		b.WriteString("\n\n")
	}
	return b.String()
}

// stripTitle removes the title that chunking prepends to chunk content.
func stripTitle(content, title string) string {
	if title != "" && strings.HasPrefix(content, title) {
		content = content[len(title):]
	}
	return strings.TrimSpace(content)
}
