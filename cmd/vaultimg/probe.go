package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/fetch"
)

func newProbeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <url>",
		Short: "Check whether a URL points at an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetchCfg := config.FetchConfig{UserAgent: "vaultimg"}
			if path, err := root.resolveConfigPath(); err == nil {
				if cfg, err := config.LoadWithoutValidation(path); err == nil {
					fetchCfg = cfg.Fetch
				}
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			res, err := fetch.FromConfig(fetchCfg).Probe(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if root.jsonOutput {
				return printJSON(out, map[string]string{
					"url":          args[0],
					"content_type": res.ContentType,
					"extension":    res.Extension,
				})
			}
			ext := res.Extension
			if ext == "" {
				ext = "(unsupported, needs --ext)"
			}
			_, _ = fmt.Fprintf(out, "Content-Type: %s\n", res.ContentType)
			_, _ = fmt.Fprintf(out, "Extension:    %s\n", ext)
			return nil
		},
	}
}
