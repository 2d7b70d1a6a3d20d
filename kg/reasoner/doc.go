// Package reasoner provides kg.Reasoner implementations: an adapter for any
// langchaingo llms.Model, a direct OpenAI chat-completion client, and a
// deterministic mock for tests.
package reasoner
