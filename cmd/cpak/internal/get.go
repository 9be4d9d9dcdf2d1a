package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cpakg/cpak/mod/module"
	"github.com/cpakg/cpak/mod/versions"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [module@version]",
	Short: "Add a dependency to versions.json",
	Long:  `Get adds a new dependency to the current module's versions.json file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var getVersion string

func init() {
	getCmd.Flags().StringVarP(&getVersion, "version", "v", "", "Version key in versions.json to add dependency to")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	depPath, depVersion := parseModuleArg(args[0])

	versionsPath := filepath.Join(".", "versions.json")
	if _, err := os.Stat(versionsPath); os.IsNotExist(err) {
		return fmt.Errorf("versions.json not found, run 'cpak init' first")
	}

	v, err := versions.Parse(versionsPath, nil)
	if err != nil {
		return fmt.Errorf("failed to parse versions.json: %w", err)
	}

	if v.Dependencies == nil {
		v.Dependencies = make(map[string][]module.Version)
	}

	// Use getVersion as the key, default to empty string
	targetVersion := getVersion

	// Update the dependency in place if it is already declared.
	deps := v.Dependencies[targetVersion]
	for i, dep := range deps {
		if dep.Path == depPath {
			deps[i].Version = depVersion
			v.Dependencies[targetVersion] = deps
			goto write
		}
	}

	v.Dependencies[targetVersion] = append(deps, module.Version{
		Path:    depPath,
		Version: depVersion,
	})

write:
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal versions.json: %w", err)
	}

	if err := os.WriteFile(versionsPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write versions.json: %w", err)
	}

	fmt.Printf("Added dependency %s@%s\n", depPath, depVersion)
	return nil
}
