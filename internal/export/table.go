package export

import (
	"fmt"
	"io"

	"github.com/rodaine/table"

	"github.com/tianzeyuan99/website-monitor/internal/domain"
)

// PrintFailureTable renders the cross-site 404 set as a console table.
func PrintFailureTable(w io.Writer, records []domain.SiteFailureRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No 404 links found")
		return
	}

	tbl := table.New("#", "URL", "Source", "Text").WithWriter(w)
	for i, rec := range records {
		tbl.AddRow(i+1, rec.URL, rec.Source, clip(rec.Text, 40))
	}
	tbl.Print()
}
