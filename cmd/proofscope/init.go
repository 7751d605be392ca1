package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"proofscope/internal/config"
	pserr "proofscope/internal/errors"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration",
	Long:  "Creates .proofscope/config.json with default settings in the project root.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root := rootFlag
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return pserr.New(pserr.InternalError, "failed to resolve project root", err)
	}

	configPath := filepath.Join(abs, ".proofscope", "config.json")
	if _, statErr := os.Stat(configPath); statErr == nil && !initForce {
		// Already initialized is success, so repeated init stays CI-friendly.
		fmt.Printf("Already initialized; configuration at %s\n", configPath)
		fmt.Println("Run 'proofscope init --force' to overwrite.")
		return nil
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(abs); err != nil {
		return pserr.New(pserr.InternalError, "failed to write configuration", err)
	}

	fmt.Printf("Configuration written to %s\n", configPath)
	return nil
}
