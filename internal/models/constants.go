package models

const (
	ContextSeparator = "\n---\n"

	SystemInstruction = "You are a helpful assistant. Use the provided context to answer the question."
)

var QuestionPromptTemplate = `Context:
%s

Question: %s`
