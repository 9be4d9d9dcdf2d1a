package internal

import (
	"fmt"

	"github.com/cpakg/cpak/internal/pack"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [module@version]",
	Short: "Print the consumer metadata of a packaged module",
	Long:  `Info prints the pkg-config metadata recorded when the module was packaged.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	modPath, version := parseModuleArg(args[0])
	if version == "" {
		return fmt.Errorf("missing version: use the form module@version")
	}

	packager, err := pack.NewPackager(pack.Options{})
	if err != nil {
		return fmt.Errorf("failed to create packager: %w", err)
	}

	res, err := packager.Installed(modPath, version)
	if err != nil {
		return err
	}
	fmt.Println(res.Metadata)
	return nil
}
