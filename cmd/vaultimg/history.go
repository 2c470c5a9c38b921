package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/vaultimg/internal/importer"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		status string
		folder string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := importer.HistoryFilter{Folder: folder, Limit: limit}
			if status != "" {
				st := importer.Status(status)
				switch st {
				case importer.StatusSucceeded, importer.StatusCanceled, importer.StatusFailed:
				default:
					return fmt.Errorf("invalid status %q: want succeeded, canceled or failed", status)
				}
				filter.Status = &st
			}

			a, err := openApp(root)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			entries, err := a.history.List(filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				if entries == nil {
					entries = []*importer.HistoryEntry{}
				}
				return printJSON(out, entries)
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(out, "No imports")
				return nil
			}

			now := time.Now()
			_, _ = fmt.Fprintf(out, "  %-10s %-10s %-14s %-9s %s\n", "TIME", "STATUS", "SOURCE", "SIZE", "PATH")
			_, _ = fmt.Fprintln(out, "  "+strings.Repeat("-", 72))
			for _, h := range entries {
				size := "-"
				if h.SizeBytes > 0 {
					size = formatSize(h.SizeBytes)
				}
				detail := h.DestPath
				if h.Status == importer.StatusFailed && h.ErrorKind != "" {
					detail = fmt.Sprintf("%s [%s]", detail, h.ErrorKind)
				}
				_, _ = fmt.Fprintf(out, "  %-10s %-10s %-14s %-9s %s\n",
					formatTimeAgo(h.CreatedAt, now), h.Status, h.SourceKind, size, detail)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (succeeded, canceled, failed)")
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Only imports stored under this vault folder")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of imports to show")
	return cmd
}
