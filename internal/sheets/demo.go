// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package sheets

import (
	"context"
	"sort"
	"strings"

	"github.com/tomtom215/sheetlens/internal/dataset"
)

// DemoPrefix marks source ids served by the built-in demo source.
const DemoPrefix = "demo-"

type demoSheet struct {
	title string
	grid  [][]string
}

// demoWorkbooks are small fixed datasets for trying the dashboard without a
// workbook directory.
var demoWorkbooks = map[string]demoSheet{
	"demo-sales": {
		title: "Sales",
		grid: [][]string{
			{"Product", "Sales", "Region", "Month", "Category", "Revenue"},
			{"MacBook Pro", "45", "North America", "January", "Electronics", "67500"},
			{"iPhone 15", "120", "North America", "January", "Electronics", "119880"},
			{"iPad Air", "78", "Europe", "January", "Electronics", "46800"},
			{"AirPods Pro", "200", "Asia", "January", "Accessories", "49800"},
			{"Apple Watch", "95", "North America", "February", "Wearables", "38000"},
			{"MacBook Air", "67", "Europe", "February", "Electronics", "73370"},
			{"iPhone 15 Pro", "89", "Asia", "February", "Electronics", "106780"},
			{"Magic Keyboard", "156", "North America", "March", "Accessories", "46800"},
			{"Studio Display", "23", "Europe", "March", "Electronics", "36570"},
			{"Mac Studio", "34", "Asia", "March", "Electronics", "67660"},
			{"AirTag", "445", "North America", "April", "Accessories", "13350"},
			{"HomePod mini", "78", "Europe", "April", "Smart Home", "7800"},
			{"Apple TV 4K", "56", "Asia", "April", "Entertainment", "11200"},
			{"Magic Mouse", "134", "North America", "May", "Accessories", "10720"},
			{"Mac Pro", "12", "Europe", "May", "Electronics", "71940"},
			{"Pro Display XDR", "8", "Asia", "May", "Electronics", "39992"},
			{"iPad Pro", "67", "North America", "June", "Electronics", "73370"},
			{"Apple Pencil", "123", "Europe", "June", "Accessories", "15990"},
		},
	},
	"demo-users": {
		title: "Users",
		grid: [][]string{
			{"User ID", "Name", "Email", "Registration Date", "Plan", "Monthly Revenue"},
			{"U001", "John Smith", "john@example.com", "2024-01-15", "Pro", "29"},
			{"U002", "Sarah Johnson", "sarah@example.com", "2024-01-18", "Basic", "9"},
			{"U003", "Mike Wilson", "mike@example.com", "2024-02-01", "Enterprise", "99"},
			{"U004", "Emma Davis", "emma@example.com", "2024-02-05", "Pro", "29"},
			{"U005", "Alex Brown", "alex@example.com", "2024-02-10", "Basic", "9"},
		},
	},
	"demo-financial": {
		title: "Financials",
		grid: [][]string{
			{"Quarter", "Revenue", "Expenses", "Profit", "Growth Rate", "Department"},
			{"Q1 2024", "2847392", "1823945", "1023447", "12.5%", "Sales"},
			{"Q1 2024", "1456783", "987654", "469129", "8.3%", "Marketing"},
			{"Q1 2024", "756432", "543210", "213222", "15.2%", "Product"},
			{"Q2 2024", "3124567", "1987432", "1137135", "18.7%", "Sales"},
			{"Q2 2024", "1678945", "1123456", "555489", "11.4%", "Marketing"},
		},
	},
}

// DemoSource serves the built-in demo datasets. Each demo source has a
// single tab named after its title.
type DemoSource struct{}

// NewDemoSource creates the demo source.
func NewDemoSource() *DemoSource { return &DemoSource{} }

// IsDemo reports whether sourceID belongs to the demo source.
func IsDemo(sourceID string) bool { return strings.HasPrefix(sourceID, DemoPrefix) }

// DemoIDs returns the demo source ids in sorted order.
func DemoIDs() []string {
	ids := make([]string, 0, len(demoWorkbooks))
	for id := range demoWorkbooks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ListTabs implements Source.
func (DemoSource) ListTabs(ctx context.Context, sourceID string) (*SheetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError("list", sourceID, ErrFetch, err)
	}
	wb, ok := demoWorkbooks[sourceID]
	if !ok {
		return nil, newError("list", sourceID, ErrNotFound, nil)
	}
	return &SheetInfo{
		Title: wb.title,
		Tabs:  []Tab{{ID: 0, Title: wb.title, Index: 0}},
	}, nil
}

// Fetch implements Source.
func (DemoSource) Fetch(ctx context.Context, sourceID, sheetName, rangeRef string) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError("fetch", sourceID, ErrFetch, err)
	}
	rangeSheet, cells, err := ParseRange(rangeRef)
	if err != nil {
		return nil, newError("fetch", sourceID, ErrInvalidRange, err)
	}
	wb, ok := demoWorkbooks[sourceID]
	if !ok {
		return nil, newError("fetch", sourceID, ErrNotFound, nil)
	}
	if sheetName == "" {
		sheetName = rangeSheet
	}
	if sheetName != "" && sheetName != wb.title {
		return nil, newError("fetch", sourceID, ErrNotFound, nil)
	}

	headers, rows := cells.Clip(wb.grid)
	return dataset.New(headers, rows), nil
}

// Mux routes demo ids to the demo source and everything else to the
// workbook source.
type Mux struct {
	demo     Source
	workbook Source
}

// NewMux creates a routing source. demo may be nil to disable demo data.
func NewMux(demo, workbook Source) *Mux {
	return &Mux{demo: demo, workbook: workbook}
}

func (m *Mux) route(sourceID string) Source {
	if m.demo != nil && IsDemo(sourceID) {
		return m.demo
	}
	return m.workbook
}

// ListTabs implements Source.
func (m *Mux) ListTabs(ctx context.Context, sourceID string) (*SheetInfo, error) {
	return m.route(sourceID).ListTabs(ctx, sourceID)
}

// Fetch implements Source.
func (m *Mux) Fetch(ctx context.Context, sourceID, sheetName, rangeRef string) (*dataset.Table, error) {
	return m.route(sourceID).Fetch(ctx, sourceID, sheetName, rangeRef)
}
