// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/jeranaias/groundchat/internal/model"
	"github.com/jeranaias/groundchat/internal/util"
)

// modelRow is one line of "groundchat models".
type modelRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Backend     string `json:"backend"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

// runModels lists the allow-listed models and the backend each is routed to.
func runModels(args Args, out io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	rows := make([]modelRow, 0, len(model.Models))
	for _, info := range model.Models {
		rows = append(rows, modelRow{
			ID:          info.ID,
			Name:        info.Name,
			Provider:    info.Provider,
			Backend:     cfg.RouteFor(info.ID),
			Description: info.Description,
			Current:     info.ID == cfg.Chat.Model,
		})
	}

	if args.JSON {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, TitleStyle.Render("Models"))
	for _, r := range rows {
		marker := "  "
		if r.Current {
			marker = "* "
		}
		fmt.Fprintf(out, "%s%s %s %s\n",
			marker,
			util.PadRight(r.ID, 20),
			util.PadRight(r.Backend, 11),
			DimStyle.Render(r.Description),
		)
	}
	return nil
}

// versionInfo is the --json form of "groundchat version".
type versionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func runVersion(args Args, out io.Writer) error {
	info := versionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if args.JSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	if args.Quiet {
		fmt.Fprintln(out, info.Version)
		return nil
	}
	fmt.Fprintln(out, TitleStyle.Render("groundchat "+info.Version))
	fmt.Fprintln(out, labelValue("Commit", info.GitCommit))
	fmt.Fprintln(out, labelValue("Built", info.BuildDate))
	fmt.Fprintln(out, labelValue("Go", info.GoVersion))
	fmt.Fprintln(out, labelValue("Platform", info.Platform))
	return nil
}
