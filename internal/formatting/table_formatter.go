package formatting

import (
	"time"

	"appcontroller/internal/diagnostics"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
	now     func() time.Time
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
		now:     time.Now,
	}
}

// FormatDiagnostics renders the snapshot as a KEY/VALUE table.
func (f *TableFormatter) FormatDiagnostics(s diagnostics.Snapshot) (string, error) {
	t := f.createTable()
	t.AppendHeader(table.Row{f.header("KEY"), f.header("VALUE")})

	idle := f.now().Sub(s.LastEvent).Round(time.Second)
	if idle < 0 {
		idle = 0
	}

	t.AppendRows([]table.Row{
		{f.key("Reporter"), s.Reporter},
		{f.key("Last event"), s.LastEvent.Format(time.RFC3339)},
		{f.key("Idle for"), idle.String()},
	})

	return t.Render(), nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) header(s string) string {
	if !f.options.Color {
		return s
	}
	return text.FgHiCyan.Sprint(s)
}

func (f *TableFormatter) key(s string) string {
	if !f.options.Color {
		return s
	}
	return text.FgHiCyan.Sprint(s)
}
