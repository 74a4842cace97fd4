package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/classpilot/classpilot/cmd/common"
)

func newStatusCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the AI gateway connection status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := common.NewClient(apiURL)
			status, err := client.GatewayStatus()
			if err != nil {
				return err
			}
			fmt.Printf("authenticated: %v\n", status.Authenticated)
			for _, site := range status.ConnectedWebsites {
				fmt.Printf("  %s: session_active=%v\n", site.Name, site.SessionActive)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Base URL of the dispatch service")
	return cmd
}
