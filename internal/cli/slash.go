// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jeranaias/groundchat/internal/export"
	"github.com/jeranaias/groundchat/internal/model"
	"github.com/jeranaias/groundchat/internal/session"
	"github.com/jeranaias/groundchat/internal/ui/styles"
)

// previewWidth bounds each line printed by /messages.
const previewWidth = 72

// slashCommands lists the REPL commands for help and tab completion.
var slashCommands = []struct {
	Name string
	Args string
	Desc string
}{
	{"/clear", "", "Clear the conversation"},
	{"/debug", "", "Toggle the prompt debug view"},
	{"/history", "", "Toggle sending chat history"},
	{"/window", "N", "Set the history window (1-25)"},
	{"/model", "[id]", "Show or switch the model"},
	{"/settings", "", "Show the current settings"},
	{"/messages", "", "List the conversation"},
	{"/export", "[md|json]", "Export the conversation"},
	{"/help", "", "Show this help"},
	{"/quit", "", "Exit"},
}

// slashHandler executes REPL slash commands against a session.
type slashHandler struct {
	sess       *session.Session
	out        io.Writer
	format     string
	exportOpts *export.Options
}

func newSlashHandler(sess *session.Session, out io.Writer, format, outputDir string) *slashHandler {
	opts := export.DefaultOptions()
	if outputDir != "" {
		opts.OutputDir = outputDir
	}
	if format == "" {
		format = "md"
	}
	return &slashHandler{sess: sess, out: out, format: format, exportOpts: opts}
}

// Handle runs one slash command line and reports whether the REPL should
// exit. User mistakes are printed, never returned.
func (h *slashHandler) Handle(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, rest := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return true
	case "/help", "/h", "/?":
		h.help()
	case "/clear", "/c":
		if err := h.sess.Clear(); err != nil {
			h.fail(err)
			return false
		}
		h.ok("Conversation cleared.")
	case "/debug":
		on := !h.sess.Settings().Debug
		h.sess.SetDebug(on)
		h.ok("Debug " + onOffText(on))
	case "/history":
		on := !h.sess.Settings().UseHistory
		h.sess.SetUseHistory(on)
		h.ok("History " + onOffText(on))
	case "/window":
		h.window(rest)
	case "/model", "/m":
		h.model(rest)
	case "/settings", "/status":
		h.settings()
	case "/messages":
		h.messages()
	case "/export":
		h.export(rest)
	default:
		h.fail(fmt.Errorf("unknown command %s (try /help)", cmd))
	}
	return false
}

func (h *slashHandler) window(rest []string) {
	if len(rest) == 0 {
		fmt.Fprintf(h.out, "History window: %d\n", h.sess.Settings().HistoryWindow)
		return
	}
	n, err := strconv.Atoi(rest[0])
	if err != nil {
		h.fail(fmt.Errorf("window must be a number: %q", rest[0]))
		return
	}
	if err := h.sess.SetHistoryWindow(n); err != nil {
		h.fail(fmt.Errorf("%w: must be between %d and %d", err, session.MinHistoryWindow, session.MaxHistoryWindow))
		return
	}
	h.ok(fmt.Sprintf("History window set to %d", n))
}

func (h *slashHandler) model(rest []string) {
	current := h.sess.Settings().Model
	if len(rest) == 0 {
		for _, info := range model.Models {
			marker := "  "
			if info.ID == current {
				marker = "* "
			}
			fmt.Fprintf(h.out, "%s%s\n", marker, info.String())
		}
		return
	}
	if err := h.sess.SetModel(rest[0]); err != nil {
		h.fail(fmt.Errorf("%w: %s", err, rest[0]))
		return
	}
	h.ok("Model set to " + h.sess.Settings().Model)
}

func (h *slashHandler) settings() {
	st := h.sess.Status()
	fmt.Fprintln(h.out, TitleStyle.Render("Settings"))
	fmt.Fprintln(h.out, labelValue("Model", st.Settings.Model))
	fmt.Fprintln(h.out, labelValue("History window", strconv.Itoa(st.Settings.HistoryWindow)))
	fmt.Fprintln(h.out, LabelStyle.Render("Use history")+styles.RenderToggle(st.Settings.UseHistory))
	fmt.Fprintln(h.out, LabelStyle.Render("Debug")+styles.RenderToggle(st.Settings.Debug))
	fmt.Fprintln(h.out, labelValue("Messages", strconv.Itoa(st.Messages)))
	fmt.Fprintln(h.out, labelValue("Context rows", strconv.Itoa(st.ContextRows)))
	if st.ContextErr != nil {
		fmt.Fprintln(h.out, labelValue("Context", "unavailable"))
	}
}

func (h *slashHandler) messages() {
	msgs := h.sess.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(h.out, DimStyle.Render("No messages yet."))
		return
	}
	for i, m := range msgs {
		fmt.Fprintf(h.out, "%3d %-9s %s\n", i+1, m.Role.DisplayName()+":", m.Preview(previewWidth))
	}
}

func (h *slashHandler) export(rest []string) {
	format := h.format
	if len(rest) > 0 {
		format = rest[0]
	}
	exporter, err := export.ForFormat(format, h.exportOpts)
	if err != nil {
		h.fail(err)
		return
	}
	t := export.NewTranscript(h.sess.Conversation(), h.sess.Settings().Model)
	path, err := export.ExportToFile(t, exporter, h.exportOpts)
	if err != nil {
		h.fail(err)
		return
	}
	h.ok("Exported to " + path)
}

func (h *slashHandler) help() {
	fmt.Fprintln(h.out, TitleStyle.Render("Commands"))
	for _, c := range slashCommands {
		name := c.Name
		if c.Args != "" {
			name += " " + c.Args
		}
		fmt.Fprintf(h.out, "  %-20s %s\n", name, DimStyle.Render(c.Desc))
	}
}

func (h *slashHandler) ok(msg string) {
	fmt.Fprintln(h.out, styles.RenderSuccess(msg))
}

func (h *slashHandler) fail(err error) {
	fmt.Fprintln(h.out, styles.RenderError(err.Error()))
}

// completeSlash returns the slash commands starting with line, sorted.
func completeSlash(line string) []string {
	if !strings.HasPrefix(line, "/") || strings.Contains(line, " ") {
		return nil
	}
	var out []string
	for _, c := range slashCommands {
		if strings.HasPrefix(c.Name, line) {
			out = append(out, c.Name)
		}
	}
	sort.Strings(out)
	return out
}

func onOffText(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
