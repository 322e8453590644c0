// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/launchkit/launchkit/internal/archive"
)

// newPackCommand creates the `launchkit pack` command.
func newPackCommand(app *App) *cobra.Command {
	var (
		opts archive.PackOptions
		libs []string
	)

	packCmd := &cobra.Command{
		Use:   "pack",
		Short: "Build a launchable archive",
		Long: `Build a launchable archive.

Each --lib name=dir copies dir under embedded-libraries/<name>/, in the order
given. --classes copies a directory under embedded-classes/. With --executable
the archive is appended to a copy of that binary, producing a single
self-launching file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			libraries, err := parseLibraries(libs)
			if err != nil {
				return err
			}
			opts.Libraries = libraries

			path, err := archive.Pack(opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "%s Packed %s\n", SuccessStyle.Render("✓"), KeyStyle.Render(path))
			if opts.Entry != "" {
				fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("entry:"), opts.Entry)
			}
			for _, lib := range opts.Libraries {
				fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("library:"), lib.Name)
			}
			return nil
		},
	}

	packCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "archive to create (required)")
	packCmd.Flags().StringVar(&opts.Entry, "entry", "", "entry symbol written as Jump-Class")
	packCmd.Flags().StringVar(&opts.Version, "version", "", "version written as Implementation-Version")
	packCmd.Flags().StringVar(&opts.CreatedBy, "created-by", "", "value of Created-By (default \""+archive.DefaultCreatedBy+"\")")
	packCmd.Flags().StringVar(&opts.ClassesDir, "classes", "", "directory copied under embedded-classes/")
	packCmd.Flags().StringArrayVar(&libs, "lib", nil, "library group as name=dir (repeatable, order kept)")
	packCmd.Flags().StringVar(&opts.Executable, "executable", "", "binary to prepend to the archive")
	_ = packCmd.MarkFlagRequired("output")

	return packCmd
}

// parseLibraries parses name=dir pairs.
func parseLibraries(values []string) ([]archive.Library, error) {
	libs := make([]archive.Library, 0, len(values))
	for _, v := range values {
		name, dir, ok := strings.Cut(v, "=")
		if !ok || name == "" || dir == "" {
			return nil, fmt.Errorf("invalid --lib %q: expected name=dir", v)
		}
		libs = append(libs, archive.Library{Name: name, Dir: dir})
	}
	return libs, nil
}
