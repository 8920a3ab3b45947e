// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
)

// Template is the fixed instruction prompt. Only the three placeholders vary.
var Template = heredoc.Doc(`
	[INST]
	You are a helpful AI chat assistant. Answer the user's question based on the provided
	chat history and the context data from customer reviews provided below.

	Use the data in the <context> section to inform your answer about customer reviews or sentiments
	if the question relates to it. If the question is general and not answerable from the context
	or chat history, answer naturally. Do not explicitly mention "based on the context" unless necessary for clarity.

	<chat_history>
	{chat_history}
	</chat_history>

	<context>
	{dataset_context}
	</context>

	<question>
	{user_question}
	</question>
	[/INST]

	Answer:
`)

// Assemble fills the template with history, context and question, in that
// order, and trims surrounding whitespace. The template is scanned once, so
// placeholder text inside the inserted values is left untouched.
func Assemble(question, contextText, historyText string) string {
	r := strings.NewReplacer(
		"{chat_history}", historyText,
		"{dataset_context}", contextText,
		"{user_question}", question,
	)
	return strings.TrimSpace(r.Replace(Template))
}
