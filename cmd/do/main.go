package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/foodlog/foodlog/cmd/do/cmd"
	"github.com/foodlog/foodlog/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	maybeRebuild()

	logger.Init(logger.Options{Development: true, Service: "do"})

	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Development and ops tools for foodlog",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		cmd.DevCmd(),
		cmd.GenCmd(),
		cmd.BuildCmd(),
		cmd.MigrateCmd(),
		cmd.SeedCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// maybeRebuild recompiles bin/do and re-executes it when its sources changed.
func maybeRebuild() {
	exe, err := os.Executable()
	if err != nil || !strings.HasSuffix(exe, "bin/do") {
		return
	}

	binInfo, err := os.Stat(exe)
	if err != nil || !newerGoFiles("cmd/do", binInfo.ModTime()) {
		return
	}

	fmt.Println("Rebuilding bin/do...")
	build := exec.Command("go", "build", "-o", exe, "./cmd/do")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Println("Rebuild failed:", err)
		return
	}

	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		fmt.Println("Re-exec failed:", err)
	}
}

func newerGoFiles(root string, than time.Time) bool {
	found := false
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		if info, err := d.Info(); err == nil && info.ModTime().After(than) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
