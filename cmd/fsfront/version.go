package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"fsfront/internal/diagfmt"
	"fsfront/internal/version"
)

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

var versionFull bool

func init() {
	versionCmd.Flags().BoolVar(&versionFull, "full", false, "include commit hash and build date")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show fsfront build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := readSettings(cmd)
		if err != nil {
			return err
		}
		info := version.Collect()
		if s.format == diagfmt.FormatJSON {
			return renderVersionJSON(cmd.OutOrStdout(), info)
		}
		renderVersionPretty(cmd.OutOrStdout(), info, s.color, versionFull)
		return nil
	},
}

func renderVersionPretty(out io.Writer, info version.Info, colored, full bool) {
	fmt.Fprintf(out, "fsfront %s\n", version.Colored(info.Version, colored))
	if full {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{Tool: "fsfront", Info: info})
}
