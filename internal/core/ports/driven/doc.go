// Package driven declares what the answer pipeline needs from the outside
// world. Services depend only on these interfaces; adapters under
// internal/adapters/driven satisfy them.
//
// The crawl side is DocumentStore (list a Drive folder), Reader (turn one
// file into passages) and PostProcessorPipeline (passages to chunks).
// The answer side is Ranker, PromptStore and LLMService.
//
// Messenger is optional. When no Slack token is configured the bot still
// answers over HTTP, the CLI and MCP.
//
// This package may import domain and nothing else from internal/.
package driven
