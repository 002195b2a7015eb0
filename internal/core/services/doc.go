// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The answer pipeline is: ChunkStore (cached Collector crawl) -> Ranker ->
// PromptBuilder -> Generator -> CitationFormatter. The Dispatcher runs
// chat replies off the webhook's request path.
package services
