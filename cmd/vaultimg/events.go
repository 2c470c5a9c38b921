package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/vaultimg/internal/events"
)

func newEventsCmd(root *rootOptions) *cobra.Command {
	var (
		limit    int
		importID string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(root)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			var raw []events.RawEvent
			if importID != "" {
				raw, err = a.eventLog.ForEntity(events.EntityImport, importID)
			} else {
				raw, err = a.eventLog.Recent(limit)
			}
			if err != nil {
				return fmt.Errorf("failed to fetch events: %w", err)
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				if raw == nil {
					raw = []events.RawEvent{}
				}
				return printJSON(out, raw)
			}
			if len(raw) == 0 {
				_, _ = fmt.Fprintln(out, "No events")
				return nil
			}

			registry := events.DefaultRegistry()
			now := time.Now()
			_, _ = fmt.Fprintf(out, "Recent Events (%d):\n\n", len(raw))
			_, _ = fmt.Fprintf(out, "  %-12s %-20s %-10s %s\n", "TIME", "TYPE", "ENTITY", "DETAIL")
			_, _ = fmt.Fprintln(out, "  "+strings.Repeat("-", 70))
			for _, r := range raw {
				detail := ""
				if e, err := registry.Unmarshal(r); err == nil {
					detail = describeEvent(e)
				}
				_, _ = fmt.Fprintf(out, "  %-12s %-20s %-10s %s\n",
					formatTimeAgo(r.OccurredAt, now), r.EventType, truncate(r.EntityID, 8), detail)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show")
	cmd.Flags().StringVar(&importID, "import", "", "Show the events of one import")
	return cmd
}

// describeEvent summarizes an event's payload in one line.
func describeEvent(e events.Event) string {
	switch ev := e.(type) {
	case *events.ImportStarted:
		return fmt.Sprintf("%s -> %s/", truncate(ev.Source, 40), ev.DestFolder)
	case *events.ImportCompleted:
		s := fmt.Sprintf("%s (%s)", ev.FilePath, formatSize(ev.FileSize))
		if ev.NotePath != "" {
			s += " note " + ev.NotePath
		}
		if ev.HasWarnings() {
			s += fmt.Sprintf(" [%d warnings]", len(ev.Warnings))
		}
		return s
	case *events.ImportCanceled:
		return ev.FilePath + " exists"
	case *events.ImportFailed:
		return fmt.Sprintf("[%s] %s", ev.Kind, truncate(ev.Reason, 50))
	case *events.FileDropped:
		return fmt.Sprintf("%s (%s)", ev.Path, formatSize(ev.Size))
	}
	return ""
}
