package models

// TableData is one financial category as produced by the upstream generator.
// Each row in Data is positionally aligned with Columns; row length is not
// checked anywhere.
type TableData struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Data    [][]string `json:"data"`
}

// IsEmpty reports whether the category has no rows. Empty categories are
// treated as absent and never rendered.
func (t TableData) IsEmpty() bool {
	return len(t.Data) == 0
}

// Category is the JSON key of one of the nine fixed newsletter categories.
type Category string

const (
	MutualFundsGs      Category = "mutualFundsGs"
	MutualFundsUsd     Category = "mutualFundsUsd"
	InvestmentFundsGs  Category = "investmentFundsGs"
	InvestmentFundsUsd Category = "investmentFundsUsd"
	BondsGs            Category = "bondsGs"
	BondsUsd           Category = "bondsUsd"
	CdaGs              Category = "cdaGs"
	CdaUsd             Category = "cdaUsd"
	Stocks             Category = "stocks"
)

// Categories lists every category in render order.
var Categories = []Category{
	MutualFundsGs,
	MutualFundsUsd,
	InvestmentFundsGs,
	InvestmentFundsUsd,
	BondsGs,
	BondsUsd,
	CdaGs,
	CdaUsd,
	Stocks,
}

// ParseCategory returns the category for a JSON key.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// OutputDocument holds the nine categories of one newsletter.
type OutputDocument struct {
	MutualFundsGs      TableData `json:"mutualFundsGs"`
	MutualFundsUsd     TableData `json:"mutualFundsUsd"`
	InvestmentFundsGs  TableData `json:"investmentFundsGs"`
	InvestmentFundsUsd TableData `json:"investmentFundsUsd"`
	BondsGs            TableData `json:"bondsGs"`
	CdaGs              TableData `json:"cdaGs"`
	BondsUsd           TableData `json:"bondsUsd"`
	CdaUsd             TableData `json:"cdaUsd"`
	Stocks             TableData `json:"stocks"`
}

// Table returns the table stored under the given category.
func (d OutputDocument) Table(c Category) (TableData, bool) {
	switch c {
	case MutualFundsGs:
		return d.MutualFundsGs, true
	case MutualFundsUsd:
		return d.MutualFundsUsd, true
	case InvestmentFundsGs:
		return d.InvestmentFundsGs, true
	case InvestmentFundsUsd:
		return d.InvestmentFundsUsd, true
	case BondsGs:
		return d.BondsGs, true
	case BondsUsd:
		return d.BondsUsd, true
	case CdaGs:
		return d.CdaGs, true
	case CdaUsd:
		return d.CdaUsd, true
	case Stocks:
		return d.Stocks, true
	}
	return TableData{}, false
}

// Tables returns all nine tables in render order, empty ones included.
func (d OutputDocument) Tables() []TableData {
	tables := make([]TableData, 0, len(Categories))
	for _, c := range Categories {
		t, _ := d.Table(c)
		tables = append(tables, t)
	}
	return tables
}
