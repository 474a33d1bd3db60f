package mcp

import (
	"net/http"

	"github.com/bobmcallan/newsletter-portal/internal/common"
	"github.com/bobmcallan/newsletter-portal/internal/models"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewsletterSource is the read side of the data layer.
type NewsletterSource interface {
	GetTables() models.OutputDocument
	GetDates() (models.NewsletterMetadata, error)
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	server     *mcpserver.MCPServer
}

// NewHandler creates the MCP server with the newsletter tools registered.
func NewHandler(src NewsletterSource, logger *common.Logger) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"newsletter-portal",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	toolCount := RegisterTools(mcpSrv, src)
	mcpSrv.AddTool(VersionTool(), VersionToolHandler())
	toolCount++

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", toolCount).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		server:     mcpSrv,
	}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
