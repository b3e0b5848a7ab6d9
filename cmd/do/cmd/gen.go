package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// generator produces one output file from a set of watched inputs.
type generator struct {
	name   string
	bin    string
	args   []string
	output string
	inputs func() []string
}

var generators = []generator{
	{
		name:   "tailwindcss",
		bin:    "tailwindcss",
		args:   []string{"-i", "assets/css/input.css", "-o", "assets/css/output.css", "--minify"},
		output: "assets/css/output.css",
		inputs: func() []string {
			return append([]string{"assets/css/input.css"},
				globTree(map[string]bool{".html": true, ".go": true, ".js": true}, "internal/ui", "assets/js")...)
		},
	},
}

func GenCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Regenerate stale assets in parallel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if force {
				for _, g := range generators {
					_ = os.Remove(g.output)
				}
			}
			return runGen()
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "regenerate even when outputs are up to date")
	return cmd
}

func runGen() error {
	for _, g := range generators {
		if _, err := exec.LookPath(g.bin); err != nil {
			fmt.Printf("Missing binary: %s (https://tailwindcss.com/blog/standalone-cli)\n", g.bin)
			return fmt.Errorf("missing required binary: %s", g.bin)
		}
	}

	start := time.Now()
	var eg errgroup.Group
	for _, g := range generators {
		eg.Go(func() error {
			if isUpToDate(g.output, g.inputs()) {
				fmt.Printf("[%s] up to date\n", g.name)
				return nil
			}

			genStart := time.Now()
			if err := run(g.bin, g.args...); err != nil {
				return fmt.Errorf("%s: %w", g.name, err)
			}
			fmt.Printf("[%s] done (%s)\n", g.name, time.Since(genStart).Round(time.Millisecond))
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	fmt.Printf("done (%s)\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// globTree lists the files under roots whose extension is in exts.
func globTree(exts map[string]bool, roots ...string) []string {
	var files []string
	for _, root := range roots {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err == nil && !d.IsDir() && exts[filepath.Ext(path)] {
				files = append(files, path)
			}
			return nil
		})
	}
	return files
}

func isUpToDate(output string, inputs []string) bool {
	outInfo, err := os.Stat(output)
	if err != nil {
		return false
	}

	for _, input := range inputs {
		inInfo, err := os.Stat(input)
		if err == nil && inInfo.ModTime().After(outInfo.ModTime()) {
			return false
		}
	}
	return true
}
