package cli

import (
	"github.com/spf13/cobra"

	"github.com/linealens/linealens/internal/api"
)

// serveCommand creates the serve command: run the HTTP API over the
// configured project store.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lineage HTTP API",
		Long: `Serve starts the HTTP API used by graph viewers: manifest parsing,
filtering, tracing, project CRUD and whole-database backup endpoints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			srv := api.NewServer(st, c.Logger)
			return srv.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
