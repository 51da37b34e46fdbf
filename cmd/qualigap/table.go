package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableColumn describes one column of terminal output. Numeric columns
// right-align their cells; headers always stay left-aligned.
type tableColumn struct {
	Header  string
	Numeric bool
}

var rankingColumns = []tableColumn{
	{Header: "#", Numeric: true},
	{Header: "Race"},
	{Header: "Avg Gap (s)", Numeric: true},
	{Header: "Samples", Numeric: true},
	{Header: "Seasons"},
}

func renderTable(columns []tableColumn, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.Header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft}
		if col.Numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := 0; i < len(columns) && i < len(row); i++ {
			r[i] = row[i]
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}
