package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(stylesCmd)
}

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List registered styles and backends",
	Args:  cobra.NoArgs,
	RunE:  runStyles,
}

// StylesResponse is the response for the styles command.
type StylesResponse struct {
	Styles   []string `json:"styles"`
	Backends []string `json:"backends"`
}

func runStyles(cmd *cobra.Command, args []string) error {
	resp := StylesResponse{
		Styles:   plugins.Styles.Names(),
		Backends: plugins.Backends.Names(),
	}

	if humanOutput {
		fmt.Println(registryLine(plugins.Styles.Kind(), resp.Styles))
		fmt.Println(registryLine(plugins.Backends.Kind(), resp.Backends))
		return nil
	}
	return outputJSON(resp)
}

// registryLine formats one registry as "Styles:   a, b".
func registryLine(kind string, names []string) string {
	label := strings.ToUpper(kind[:1]) + kind[1:] + "s:"
	return fmt.Sprintf("%-10s%s", label, strings.Join(names, ", "))
}
