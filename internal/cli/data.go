// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/groundchat/internal/dataset"
	"github.com/jeranaias/groundchat/internal/warehouse"
)

// productColumn is the column --product filters on.
const productColumn = "PRODUCT"

// runData handles "data import" and "data show".
func runData(ctx context.Context, app *App, args Args, in io.Reader, out io.Writer) error {
	if len(args.Rest) == 0 {
		return usageErrorf("data requires a subcommand: import or show")
	}
	table := app.Config.Context.Table
	if table == "" {
		return usageErrorf("no context table configured (use --table)")
	}

	switch sub := args.Rest[0]; sub {
	case "import":
		if len(args.Rest) < 2 {
			return usageErrorf("data import requires a CSV file (or - for stdin)")
		}
		return importData(ctx, app, table, args.Rest[1], args.Replace, in, out)
	case "show":
		return showData(ctx, app, table, args, out)
	default:
		return usageErrorf("unknown data subcommand %q", sub)
	}
}

func importData(ctx context.Context, app *App, table, path string, replace bool, in io.Reader, out io.Writer) error {
	r := in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return &CommandError{Command: "data", Action: "import", Err: err}
		}
		defer f.Close()
		r = f
	}

	n, err := app.Warehouse.ImportCSV(ctx, table, r, warehouse.ImportOptions{Replace: replace})
	if err != nil {
		return &CommandError{Command: "data", Action: "import", Err: err}
	}
	if cached, ok := app.Source.(*dataset.CachedSource); ok {
		if err := cached.Invalidate(ctx, table); err != nil {
			app.Logger.Warn("failed to invalidate dataset cache", "table", table, "error", err)
		}
	}
	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("Imported %d rows into %s", n, table)))
	return nil
}

func showData(ctx context.Context, app *App, table string, args Args, out io.Writer) error {
	ds, err := app.Source.Load(ctx, table)
	if err != nil {
		return &CommandError{Command: "data", Action: "show", Err: err}
	}
	title := fmt.Sprintf("%s (%d rows)", table, ds.Len())

	if len(args.Product) > 0 {
		if ds, err = ds.Filter(productColumn, args.Product); err != nil {
			return usageErrorf("--product: %v", err)
		}
		title = fmt.Sprintf("%s, %s in [%s] (%d rows)", table, productColumn, strings.Join(args.Product, ", "), ds.Len())
	}
	if args.By != "" {
		value := args.Mean
		if value == "" {
			value = dataset.DefaultMeanColumn
		}
		if ds, err = ds.MeanBy(value, args.By); err != nil {
			return usageErrorf("--by %s: %v", args.By, err)
		}
		title = fmt.Sprintf("Average %s by %s", value, args.By)
		if len(args.Product) > 0 {
			title += " for " + strings.Join(args.Product, ", ")
		}
	}

	if args.JSON {
		data, err := json.MarshalIndent(ds, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintln(out, TitleStyle.Render(title))
	fmt.Fprintln(out, dataset.Format(ds))
	return nil
}
