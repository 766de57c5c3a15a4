package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/jimezsa/gdscrape/internal/glassdoor"
)

type LocalesCmd struct{}

type localeRow struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

func (l *LocalesCmd) Run(ctx *Context) error {
	locales := glassdoor.Locales()

	if ctx.JSONOutput {
		rows := make([]localeRow, 0, len(locales))
		for _, locale := range locales {
			rows = append(rows, localeRow{ID: locale.ID, Code: locale.Code, Name: locale.Name})
		}
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	if !ctx.PlainText {
		fmt.Fprintln(tw, "id\tcode\tname")
	}
	for _, locale := range locales {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", locale.ID, locale.Code, locale.Name)
	}
	return tw.Flush()
}
