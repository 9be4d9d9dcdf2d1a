package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cpak",
	Short: "cpak is a recipe-driven package manager for C/C++ libraries",
	Long:  `cpak is a recipe-driven package manager that downloads, packages, and describes C/C++ libraries for consumption by other builds.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
