package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	var proxyPort, appPort string

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the server under air with live reload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(proxyPort, appPort)
		},
	}

	cmd.Flags().StringVar(&proxyPort, "proxy-port", "8080", "port of the live-reload proxy")
	cmd.Flags().StringVar(&appPort, "app-port", "8090", "port the server listens on")
	return cmd
}

func runDev(proxyPort, appPort string) error {
	airPath, err := exec.LookPath("air")
	if err != nil {
		fmt.Println("Missing binary: air")
		fmt.Println("Install with:")
		fmt.Println("  go install github.com/air-verse/air@latest")
		return fmt.Errorf("air not found")
	}

	fmt.Println("Building bin/do...")
	if err := run("go", "build", "-o", "bin/do", "./cmd/do"); err != nil {
		return fmt.Errorf("failed to build do: %w", err)
	}

	// templates, content and js are embedded, so they trigger a rebuild too
	airArgs := []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "./bin/do gen && go build -o ./tmp/server ./cmd/server",
		"-build.bin", "./tmp/server",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,node_modules,tmp,.data",
		"-build.exclude_regex", "_test.go$|output\\.css$",
		"-build.include_ext", "go,html,md,css,js,sql",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
		"-proxy.enabled", "true",
		"-proxy.proxy_port", proxyPort,
		"-proxy.app_port", appPort,
	}

	env := append(os.Environ(), "PORT="+appPort, "APP_ENV=development")
	return syscall.Exec(airPath, airArgs, env)
}
