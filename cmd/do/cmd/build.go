package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

func BuildCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate assets and build the server binary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runGen(); err != nil {
				return err
			}
			fmt.Println("==> Building", output)
			return run("go", "build", "-o", output, "./cmd/server")
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "bin/server", "output path")
	return cmd
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
