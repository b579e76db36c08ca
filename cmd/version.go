package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/huangsam/gitpulse/internal/store"
	"github.com/huangsam/gitpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// versionCmd prints build and schema details.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gitpulse.",
	Long: `Display the release, build details and the store schema this binary migrates to.

The schema line names the configured backend (db-backend) and the latest
migration version embedded for it. Compare it with "gitpulse db status" to see
whether a shared store is behind or ahead of this binary.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("db-backend")))
		writeVersion(cmd.OutOrStdout(), backend)
	},
}

// writeVersion prints the version block for backend.
func writeVersion(w io.Writer, backend schema.DatabaseBackend) {
	_, _ = fmt.Fprintf(w, "gitpulse %s\n", version)
	_, _ = fmt.Fprintf(w, "  Commit:  %s\n", commit)
	_, _ = fmt.Fprintf(w, "  Built:   %s\n", date)
	_, _ = fmt.Fprintf(w, "  Runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if latest, err := store.LatestSchemaVersion(backend); err == nil {
		_, _ = fmt.Fprintf(w, "  Schema:  v%d (%s)\n", latest, backend)
	} else {
		_, _ = fmt.Fprintf(w, "  Schema:  unknown (%v)\n", err)
	}
}
