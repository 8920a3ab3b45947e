// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jeranaias/groundchat/internal/config"
)

// runConfig handles the config subcommands.
func runConfig(args Args, out io.Writer) error {
	sub := "show"
	if len(args.Rest) > 0 {
		sub = args.Rest[0]
	}

	switch sub {
	case "show":
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		if args.JSON {
			data, err := json.MarshalIndent(cfg.Redacted(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprint(out, cfg.String())
		return nil

	case "path":
		path, found, err := config.Locate(args.ConfigPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		if !found && !args.Quiet {
			fmt.Fprintln(out, DimStyle.Render("(not created yet; run 'groundchat config init')"))
		}
		return nil

	case "init":
		path, found, err := config.Locate(args.ConfigPath)
		if err != nil {
			return err
		}
		if found {
			return usageErrorf("config file already exists: %s", path)
		}
		cfg := config.Default()
		if err := config.Save(cfg, path); err != nil {
			return &CommandError{Command: "config", Action: "init", Err: err}
		}
		fmt.Fprintln(out, SuccessStyle.Render("Created "+path))
		for _, w := range cfg.Warnings() {
			fmt.Fprintln(out, WarningStyle.Render("Note: ")+w)
		}
		return nil

	case "get":
		if len(args.Rest) != 2 {
			return usageErrorf("usage: groundchat config get KEY")
		}
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}
		key := args.Rest[1]
		val, err := cfg.Get(key)
		if err != nil {
			return usageErrorf("%v", err)
		}
		if config.IsSecretKey(key) && fmt.Sprint(val) != "" {
			val = "[REDACTED]"
		}
		fmt.Fprintln(out, val)
		return nil

	case "set":
		if len(args.Rest) != 3 {
			return usageErrorf("usage: groundchat config set KEY VALUE")
		}
		return setConfigValue(args, args.Rest[1], args.Rest[2], out)

	default:
		return usageErrorf("unknown config subcommand %q", sub)
	}
}

// setConfigValue edits one key in the config file, creating it if needed.
func setConfigValue(args Args, key, value string, out io.Writer) error {
	path, found, err := config.Locate(args.ConfigPath)
	if err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".toml" && ext != "" {
		return usageErrorf("config set only edits TOML files; edit %s by hand", path)
	}

	cfg := config.Default()
	if found {
		if cfg, err = config.ReadFile(path); err != nil {
			return fmt.Errorf("%w: %w", errConfigLoad, err)
		}
	}
	if err := cfg.Set(key, value); err != nil {
		return usageErrorf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return &CommandError{Command: "config", Action: "set", Err: err}
	}

	shown := value
	if config.IsSecretKey(key) {
		shown = "[REDACTED]"
	}
	fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf("Set %s = %s", key, shown)))
	return nil
}
