package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/app"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/models"
	"github.com/ternarybob/noesis/internal/services/search"
)

func textError(format string, args ...interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(fmt.Sprintf(format, args...)),
		},
	}
}

// handleKnowledgeSearch implements the knowledge_search tool.
func handleKnowledgeSearch(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		baseID, err := request.RequireString("base_id")
		if err != nil || baseID == "" {
			return textError("Error: base_id parameter is required"), nil
		}
		model, err := request.RequireString("embedding_model")
		if err != nil || model == "" {
			return textError("Error: embedding_model parameter is required"), nil
		}
		query, err := request.RequireString("query")
		if err != nil || query == "" {
			return textError("Error: query parameter is required"), nil
		}

		mode := models.QueryMode(request.GetString("mode", string(models.QueryModeDefault)))
		topK := request.GetInt("top_k", 0)

		hits, err := application.Search.Search(ctx, &search.Request{
			Base: &models.KnowledgeBase{
				ID:               baseID,
				EmbeddingModelID: model,
			},
			Query: query,
			Mode:  mode,
			TopK:  topK,
		})
		if err != nil {
			logger.Error().Err(err).Str("base_id", baseID).Msg("Search failed")
			return textError("Search error: %v", err), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(formatSearchResults(query, hits)),
			},
		}, nil
	}
}

// handleIngestNote implements the knowledge_ingest_note tool. The call blocks
// until the ingestion job settles so the client sees the final status.
func handleIngestNote(application *app.App, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		baseID, err := request.RequireString("base_id")
		if err != nil || baseID == "" {
			return textError("Error: base_id parameter is required"), nil
		}
		model, err := request.RequireString("embedding_model")
		if err != nil || model == "" {
			return textError("Error: embedding_model parameter is required"), nil
		}
		content, err := request.RequireString("content")
		if err != nil || content == "" {
			return textError("Error: content parameter is required"), nil
		}

		base := &models.KnowledgeBase{
			ID:               baseID,
			EmbeddingModelID: model,
		}
		item := &models.KnowledgeItem{
			ID:   common.NewItemID(),
			Type: models.ItemTypeNote,
			Data: models.ItemData{
				Content:   content,
				SourceURL: request.GetString("source_url", ""),
			},
		}

		done := make(chan string, 1)
		application.Orchestrator.Process(ctx, base, item, func(status models.ItemStatus, errorMessage string) {
			switch status {
			case models.StatusCompleted:
				done <- ""
			case models.StatusFailed:
				done <- errorMessage
			}
		})

		select {
		case errMessage := <-done:
			if errMessage != "" {
				return textError("Ingestion failed: %s", errMessage), nil
			}
		case <-ctx.Done():
			application.Orchestrator.Cancel(item.ID)
			return textError("Ingestion cancelled"), nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(fmt.Sprintf("Note ingested into base %q as item %s", baseID, item.ID)),
			},
		}, nil
	}
}
