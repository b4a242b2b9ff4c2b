package generator

import (
	"fmt"
	"strings"
)

// AnswerMarker prefixes the model's answer in the prompt template. The
// formatter strips everything up to and including the marker when models echo
// the template back.
const AnswerMarker = "Helpful Answer:"

const promptTemplate = `You are an assistant that answers questions strictly from the provided context.
Use the following pieces of context to answer the question at the end.
If the context does not contain the answer, just say that you don't know, don't try to make up an answer.

Context:
%s

Question: %s
` + AnswerMarker

// BuildPrompt assembles the grounded prompt from retrieved chunk texts and
// the user's question.
func BuildPrompt(chunks []string, question string) string {
	context := strings.Join(chunks, "\n\n")
	if context == "" {
		context = "(no relevant documents found)"
	}
	return fmt.Sprintf(promptTemplate, context, question)
}
