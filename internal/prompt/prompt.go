// Package prompt builds the system and user prompts sent to the completion
// service.
package prompt

import (
	"fmt"
)

// FactsSystem instructs the model to return exactly 5 facts as strict JSON.
const FactsSystem = `You are a knowledgeable assistant that provides interesting and accurate facts.
You must respond in valid JSON format with this exact structure:
{
    "facts": [
        "fact 1 text here",
        "fact 2 text here",
        "fact 3 text here",
        "fact 4 text here",
        "fact 5 text here"
    ]
}
Rules:
- Always return exactly 5 facts
- Each fact should be 1-2 sentences long
- Facts should be accurate, interesting, related to the topic, and not too common or obvious
- No numbering or bullet points in the fact text itself`

// QuotesSystem instructs the model to return exactly 5 quotes as strict JSON.
const QuotesSystem = `You are a knowledgeable assistant that provides meaningful and accurate quotes.
You must respond in valid JSON format with this exact structure:
{
    "quotes": [
        {
            "text": "the quote text here",
            "author": "Person's Name"
        },
        {
            "text": "another quote here",
            "author": "Another Person"
        }
    ]
}
Rules:
- Always return exactly 5 quotes
- Each quote must include the actual author (if present, otherwise use "Unknown")
- Quotes should be real and accurately attributed
- If a quote's author is truly unknown, use "Unknown"
- Do not make up fake attributions`

// QASystem is the system prompt for multi-turn Q&A conversations.
const QASystem = `You are a helpful assistant answering follow-up questions in a short conversation.
Keep answers clear and concise, and stay on the topic the user asked about.`

// Facts merges the topic and optional comment into the facts user prompt.
func Facts(topic, comment string) string {
	return userPrompt(fmt.Sprintf("Give me 5 interesting facts about: %s", topic), comment)
}

// Quotes merges the topic and optional comment into the quotes user prompt.
func Quotes(topic, comment string) string {
	return userPrompt(fmt.Sprintf("Give me 5 meaningful quotes about: %s", topic), comment)
}

func userPrompt(base, comment string) string {
	if comment != "" {
		return base + "\nAdditional instruction provided by the user: " + comment
	}
	return base
}
