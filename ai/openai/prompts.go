package openai

import "fmt"

const enhancementResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "enhanced_query": {
      "type": "string"
    },
    "keywords": {
      "type": "array",
      "items": {"type": "string"}
    },
    "synonyms": {
      "type": "array",
      "items": {"type": "string"}
    },
    "concepts": {
      "type": "array",
      "items": {"type": "string"}
    },
    "query_type": {
      "type": "string",
      "enum": ["definition", "how-to", "example", "comparison", "troubleshooting", "multi-step", "general"]
    },
    "required_topics": {
      "type": "array",
      "items": {"type": "string"}
    },
    "recommended_top_k": {
      "type": "integer",
      "minimum": 1,
      "maximum": 20
    },
    "multi_query_needed": {
      "type": "boolean"
    },
    "reasoning": {
      "type": "string"
    }
  },
  "required": ["enhanced_query", "keywords", "query_type"],
  "additionalProperties": false
}`

const enhancementPromptTemplate = `You are a query analysis expert for a technical documentation search system.
Analyze the user's question and produce a retrieval plan as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "enhanced_query" rewrites the question with phrasing that works well for semantic search over documentation; keep it one sentence.
- "keywords" are the key terms to search for, lowercase, most important first.
- "synonyms" are related terms and common variations of the keywords.
- "concepts" are the main concepts the question is about.
- "query_type" must be exactly one of the listed values.
- "required_topics" lists the distinct sub-topics that must EACH be retrieved for a complete answer. Leave it empty for single-topic questions.
- Set "multi_query_needed" to true only when the question genuinely spans multiple independent topics that each deserve their own targeted search.
- "recommended_top_k" is how many documentation chunks the answer needs: 5 for simple questions, up to 15 for multi-step or comparison questions.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "What is a webhook?"
Output:
{
  "enhanced_query": "webhook definition and explanation of how webhook event notifications work",
  "keywords": ["webhook", "event", "notification"],
  "synonyms": ["callback", "event handler"],
  "concepts": ["webhooks"],
  "query_type": "definition",
  "required_topics": [],
  "recommended_top_k": 5,
  "multi_query_needed": false,
  "reasoning": "Single-concept definition question."
}

Example:
Input: "How do I create a customer and then charge them for a subscription?"
Output:
{
  "enhanced_query": "steps to create a customer object and charge a recurring subscription payment",
  "keywords": ["customer", "subscription", "charge", "create"],
  "synonyms": ["billing", "recurring payment"],
  "concepts": ["customer management", "subscription billing"],
  "query_type": "multi-step",
  "required_topics": ["customer creation", "subscription charging"],
  "recommended_top_k": 10,
  "multi_query_needed": true,
  "reasoning": "Two independent operations that each need their own documentation."
}`

const answerPromptTemplate = `You are a helpful technical documentation assistant. Answer the user's question using ONLY the documentation excerpts provided below.

Documentation excerpts:
---
%s
---

Question: %s

Rules:
- Base your answer strictly on the excerpts above. If they don't contain enough information to answer, say so plainly.
- Include code examples from the excerpts when they help, in fenced code blocks.
- Be concise and direct; answer the question first, then add relevant detail.
- Do not invent APIs, parameters, or behavior that the excerpts don't show.`

// buildEnhancementPrompt creates the system prompt for query analysis.
func buildEnhancementPrompt() string {
	return fmt.Sprintf(enhancementPromptTemplate, enhancementResponseSchema)
}

// buildAnswerPrompt assembles the answer-writing prompt from the assembled
// evidence context and the original question.
func buildAnswerPrompt(query, context string) string {
	return fmt.Sprintf(answerPromptTemplate, context, query)
}
