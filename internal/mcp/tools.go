package mcp

import (
	"context"
	"fmt"

	"github.com/bobmcallan/newsletter-portal/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CategorySummary is one entry of list_categories.
type CategorySummary struct {
	Category models.Category `json:"category"`
	Title    string          `json:"title"`
	Columns  int             `json:"columns"`
	Rows     int             `json:"rows"`
}

// RegisterTools registers the newsletter tools and returns how many were added.
func RegisterTools(s *server.MCPServer, src NewsletterSource) int {
	s.AddTool(ListCategoriesTool(), ListCategoriesHandler(src))
	s.AddTool(GetTableTool(), GetTableHandler(src))
	s.AddTool(GetDatesTool(), GetDatesHandler(src))
	return 3
}

func categoryNames() []string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return names
}

// ListCategoriesTool describes list_categories.
func ListCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("List the newsletter categories in page order with their titles and row counts. Categories with 0 rows are not shown on the page."),
	)
}

// ListCategoriesHandler returns every category, empty ones included.
func ListCategoriesHandler(src NewsletterSource) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc := src.GetTables()
		out := make([]CategorySummary, 0, len(models.Categories))
		for _, c := range models.Categories {
			t, _ := doc.Table(c)
			out = append(out, CategorySummary{
				Category: c,
				Title:    t.Title,
				Columns:  len(t.Columns),
				Rows:     len(t.Data),
			})
		}
		return jsonResult(out), nil
	}
}

// GetTableTool describes get_table.
func GetTableTool() mcp.Tool {
	return mcp.NewTool("get_table",
		mcp.WithDescription("Get one newsletter table with its title, columns and rows."),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category key, e.g. mutualFundsGs or stocks"),
			mcp.Enum(categoryNames()...),
		),
	)
}

// GetTableHandler returns the table for the requested category.
func GetTableHandler(src NewsletterSource) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := r.GetString("category", "")
		if name == "" {
			return errorResult("category is required"), nil
		}
		c, ok := models.ParseCategory(name)
		if !ok {
			return errorResult(fmt.Sprintf("unknown category %q", name)), nil
		}
		t, _ := src.GetTables().Table(c)
		return jsonResult(t), nil
	}
}

// GetDatesTool describes get_dates.
func GetDatesTool() mcp.Tool {
	return mcp.NewTool("get_dates",
		mcp.WithDescription("Get the newsletter date and the formatted last update time."),
	)
}

// GetDatesHandler returns the badge values shown on the page.
func GetDatesHandler(src NewsletterSource) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dates, err := src.GetDates()
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(dates), nil
	}
}
