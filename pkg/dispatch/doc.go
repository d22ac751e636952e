// Package dispatch maps free-text prompts onto a fixed set of TestLink
// actions. Matching is deliberately dumb: substring patterns in Spanish and
// English, no NLP, and each prompt resolves to at most one API call path.
// Destructive actions are recognized but refused.
package dispatch
