package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiaona-ai/agent-tasks/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task queue over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := openQueue()
		if err != nil {
			return err
		}

		fmt.Printf("Serving agent-tasks API on %s\n", serveAddr)
		return web.NewServer(q).Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8377", "Listen address")
}
