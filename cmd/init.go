package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/chime/internal/config"
	"github.com/zjrosen/chime/internal/paths"
)

var initScaffold bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a chime config file in a story directory",
	Long: `Creates a .chime/config.yaml file in the given directory (default: current)
with default settings. With --scaffold, also writes a starter manifest and
descriptor next to it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initScaffold, "scaffold", false, "also write scripts/assetList.yaml and scripts/sfx.yaml")
	rootCmd.AddCommand(initCmd)
}

// scaffoldFiles is the starter layout for a story's sound assets.
var scaffoldFiles = []struct {
	path string
	body string
}{
	{"scripts/assetList.yaml", `# Descriptor documents to load, in order. Later entries win on key collisions.
assetList:
  - scripts/sfx.yaml
`},
	{"scripts/sfx.yaml", `# key: audio file. "click" also becomes the default sound.
click: audio/click.wav
`},
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	configPath := filepath.Join(paths.ResolveChimeDir(dir), "config.yaml")

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	// Create the config file
	if err := config.WriteDefaultConfig(configPath); err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)

	if !initScaffold {
		return nil
	}
	for _, f := range scaffoldFiles {
		path := filepath.Join(dir, filepath.FromSlash(f.path))
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Kept existing %s\n", path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(f.body), 0600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	}
	return nil
}
