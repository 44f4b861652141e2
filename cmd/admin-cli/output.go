package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/unifiedui/admin-console/internal/services/console"
)

const (
	outputText = "text"
	outputJSON = "json"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

func printResult(w io.Writer, res console.Result, format string) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printMessage(w, res)
	if res.Error != nil && res.Error.Body != "" {
		faint.Fprintf(w, "  %s\n", res.Error.Body)
	}

	if len(res.Options) > 0 {
		yellow.Fprintln(w, "Options:")
		for _, opt := range res.Options {
			fmt.Fprintf(w, "  %s\t(%s)\n", opt.Value, opt.Label)
		}
	}

	printView(w, res.View)
	return nil
}

func printMessage(w io.Writer, res console.Result) {
	if res.Message == "" {
		return
	}
	switch {
	case !res.OK && res.Indicator == console.IndicatorBusy:
		yellow.Fprintln(w, res.Message)
	case !res.OK:
		red.Fprintln(w, res.Message)
	case res.Value != nil:
		green.Fprintf(w, "%s %s = %s\n", console.IndicatorSuccess, res.Action, res.Message)
	default:
		green.Fprintln(w, res.Message)
	}
}

func printView(w io.Writer, view console.View) {
	cyan.Fprintf(w, "Environment: %s\n", view.Environment)
	if view.SearchHint != "" {
		fmt.Fprintln(w, view.SearchHint)
	}

	panel := "expanded"
	if view.Panel.Collapsed {
		panel = "collapsed"
	}
	if view.Panel.Position != nil {
		panel = fmt.Sprintf("%s at (%d, %d)", panel, view.Panel.Position.Left, view.Panel.Position.Top)
	}
	faint.Fprintf(w, "Panel: %s\n", panel)

	if view.User == nil {
		fmt.Fprintln(w, "No user loaded")
		return
	}

	yellow.Fprintf(w, "User %s <%s>\n", view.User.ID, view.User.Email)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FEATURE\tVALUE\tCONTROL")
	for _, row := range view.User.Features {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.DisplayKey, row.Display, row.Control)
	}
	tw.Flush()
}
