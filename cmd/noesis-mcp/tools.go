package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createKnowledgeSearchTool returns the knowledge_search tool definition.
func createKnowledgeSearchTool() mcp.Tool {
	return mcp.NewTool("knowledge_search",
		mcp.WithDescription("Search a Noesis knowledge base (vector, bm25 or hybrid retrieval)"),
		mcp.WithString("base_id",
			mcp.Required(),
			mcp.Description("Knowledge base id"),
		),
		mcp.WithString("embedding_model",
			mcp.Required(),
			mcp.Description("Embedding model as provider:model (e.g. ollama:nomic-embed-text)"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query text"),
		),
		mcp.WithString("mode",
			mcp.Description("Retrieval mode: default (vector), bm25, or hybrid"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Maximum results to return (default: 6)"),
		),
	)
}

// createIngestNoteTool returns the knowledge_ingest_note tool definition.
func createIngestNoteTool() mcp.Tool {
	return mcp.NewTool("knowledge_ingest_note",
		mcp.WithDescription("Ingest a free-form note into a Noesis knowledge base"),
		mcp.WithString("base_id",
			mcp.Required(),
			mcp.Description("Knowledge base id"),
		),
		mcp.WithString("embedding_model",
			mcp.Required(),
			mcp.Description("Embedding model as provider:model"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Note text to ingest"),
		),
		mcp.WithString("source_url",
			mcp.Description("Optional origin URL recorded as the note's source"),
		),
	)
}
