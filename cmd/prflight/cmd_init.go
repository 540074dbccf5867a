package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prflight/prflight/internal/config"
	"github.com/prflight/prflight/internal/wizard"
	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Scaffold the auto-PR workflow and a .prflight.yaml",
		Long: `Scaffold a new auto-PR workflow interactively.

Collects the workflow name, trigger and destination branches, PR label,
and token secret name, then writes:
  .github/workflows/<name>.yml   the workflow file
  .prflight.yaml                 the matching validation config

Existing files are never overwritten unless --force is set.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runInit,
		SilenceErrors: true,
	}
	cmd.Flags().Bool("force", false, "Overwrite existing files")
	cmd.Flags().String("dir", ".", "Directory to scaffold into")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	dir, _ := cmd.Flags().GetString("dir")

	initialName := ""
	if len(args) == 1 {
		initialName = args[0]
	}

	spec, err := wizard.RunWorkflowWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initialName)
	if err != nil {
		return err
	}

	workflowYAML, err := wizard.GenerateWorkflowYAML(spec)
	if err != nil {
		return err
	}
	configYAML, err := wizard.GenerateConfigYAML(spec)
	if err != nil {
		return err
	}

	workflowPath := filepath.Join(dir, ".github", "workflows", spec.Name+".yml")
	configPath := filepath.Join(dir, config.ConfigFileName)

	if err := writeFile(workflowPath, workflowYAML, force); err != nil {
		return err
	}
	if err := writeFile(configPath, configYAML, force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", workflowPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'prflight check' to validate.")
	return nil
}

func writeFile(path, content string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
