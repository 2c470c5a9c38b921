package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newFoldersCmd(root *rootOptions) *cobra.Command {
	var fromVault bool

	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List predefined folders, or every folder in the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(root)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			out := cmd.OutOrStdout()
			if fromVault {
				folders, err := a.vault.Folders()
				if err != nil {
					return err
				}
				if root.jsonOutput {
					if folders == nil {
						folders = []string{}
					}
					return printJSON(out, folders)
				}
				for _, f := range folders {
					_, _ = fmt.Fprintln(out, f)
				}
				return nil
			}

			if root.jsonOutput {
				return printJSON(out, a.cfg.Folders)
			}
			if len(a.cfg.Folders) == 0 {
				_, _ = fmt.Fprintln(out, "No predefined folders")
				return nil
			}

			_, _ = fmt.Fprintf(out, "  %-16s %-28s %-5s %s\n", "NAME", "PATH", "NOTE", "TEMPLATE")
			_, _ = fmt.Fprintln(out, "  "+strings.Repeat("-", 70))
			for _, f := range a.cfg.Folders {
				note := "-"
				switch {
				case f.CreateNote && f.CreateNoteSubfolders:
					note = "yes+"
				case f.CreateNote:
					note = "yes"
				case f.CreateNoteSubfolders:
					note = "sub"
				}
				_, _ = fmt.Fprintf(out, "  %-16s %-28s %-5s %s\n",
					truncate(f.Name, 16), truncate(f.Path, 28), note, f.NoteTemplate)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromVault, "vault", false, "List folders that exist in the vault")
	return cmd
}
