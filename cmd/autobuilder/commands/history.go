package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
	"git.home.luguber.info/inful/autobuilder/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Platform string `short:"p" help:"Only show outcomes for this platform label"`
	Limit    int    `short:"n" help:"Maximum number of outcomes to show" default:"20"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := LoadConfig(root)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return abErrors.ValidationFailed("history.path", "build history is not configured")
	}

	filter := history.Filter{Limit: h.Limit}
	if h.Platform != "" {
		p, ok := build.LookupPlatform(h.Platform)
		if !ok {
			return abErrors.ValidationFailed("platform", fmt.Sprintf("unknown platform %q (want Windows, Android or WebGL)", h.Platform))
		}
		filter.PlatformLabel = p.Label
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	outcomes, err := store.List(context.Background(), filter)
	if err != nil {
		return err
	}
	return WriteHistory(g.out(), outcomes, localePrinter(os.Getenv("LANG")))
}

// WriteHistory renders outcomes as an aligned table, sizes grouped per p's locale.
func WriteHistory(w io.Writer, outcomes []build.Outcome, p *message.Printer) error {
	if len(outcomes) == 0 {
		_, err := fmt.Fprintln(w, "No builds recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tPLATFORM\tRESULT\tSIZE (BYTES)\tDURATION\tVERSION\tCOMMIT")
	for _, o := range outcomes {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.StartedAt.Local().Format(time.DateTime),
			o.PlatformLabel,
			o.Result,
			p.Sprintf("%d", o.TotalSizeBytes),
			o.Duration.Round(time.Second),
			o.Version,
			shortCommit(o.Commit))
	}
	return tw.Flush()
}

// localePrinter maps a POSIX locale such as "de_DE.UTF-8" to a printer,
// falling back to English.
func localePrinter(posixLocale string) *message.Printer {
	name, _, _ := strings.Cut(posixLocale, ".")
	name = strings.ReplaceAll(name, "_", "-")
	tag, err := language.Parse(name)
	if err != nil || name == "" || name == "C" || name == "POSIX" {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	if c == "" {
		return "-"
	}
	return c
}
