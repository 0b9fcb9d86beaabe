//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary      = "outreach"
	linuxBinary = "outreach-linux-amd64"
	mainPackage = "./cmd/outreach"
	// The version is embedded from cmd/outreach/VERSION.
	ldflags = "-s -w"
)

// Build builds outreach for Linux with Green Tea GC
func Build() error {
	fmt.Println("Building outreach for Linux with Go 1.25 + Green Tea GC...")
	env := map[string]string{
		"GOOS":         "linux",
		"GOARCH":       "amd64",
		"GOEXPERIMENT": "greenteagc",
	}
	return sh.RunWith(env, "go", "build", "-ldflags", ldflags, "-o", linuxBinary, mainPackage)
}

// BuildDocker builds the container variant: proxy-aware, no self-upgrade
func BuildDocker() error {
	fmt.Println("Building outreach for Docker...")
	env := map[string]string{
		"GOOS":        "linux",
		"GOARCH":      "amd64",
		"CGO_ENABLED": "0",
	}
	return sh.RunWith(env, "go", "build", "-tags", "docker", "-ldflags", ldflags, "-o", linuxBinary, mainPackage)
}

// BuildLocal builds outreach for current platform
func BuildLocal() error {
	fmt.Printf("Building outreach for %s/%s...\n", runtime.GOOS, runtime.GOARCH)
	return sh.Run("go", "build", "-o", binary, mainPackage)
}

// Test runs tests
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "-v", "./...")
}

// TestDocker runs tests with the docker build tag
func TestDocker() error {
	fmt.Println("Running tests (docker tag)...")
	return sh.Run("go", "test", "-tags", "docker", "./...")
}

// Race runs tests with the race detector
func Race() error {
	fmt.Println("Running tests with -race...")
	return sh.Run("go", "test", "-race", "./...")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	os.Remove(binary)
	os.Remove(linuxBinary)
	return nil
}

// Deploy builds and deploys to the host in OUTREACH_DEPLOY_HOST (user@host)
func Deploy() error {
	server := os.Getenv("OUTREACH_DEPLOY_HOST")
	if server == "" {
		return errors.New("OUTREACH_DEPLOY_HOST is not set")
	}
	if err := Build(); err != nil {
		return err
	}

	fmt.Println("Deploying to production...")

	// Upload binary
	if err := sh.Run("scp", linuxBinary, server+":/usr/local/bin/outreach-new"); err != nil {
		return err
	}

	// Restart service
	cmd := "systemctl stop outreach && mv /usr/local/bin/outreach /usr/local/bin/outreach-old && mv /usr/local/bin/outreach-new /usr/local/bin/outreach && chmod +x /usr/local/bin/outreach && systemctl start outreach"
	if err := sh.Run("ssh", server, cmd); err != nil {
		return err
	}

	fmt.Println("Deployment complete!")
	return sh.Run("ssh", server, "systemctl status outreach")
}

// Update upgrades all Go dependencies
func Update() error {
	fmt.Println("Updating dependencies...")
	if err := sh.Run("go", "get", "-u", "./..."); err != nil {
		return err
	}
	return sh.Run("go", "mod", "tidy")
}

// Fmt runs gofmt on all Go files
func Fmt() error {
	fmt.Println("Formatting code...")
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet on all Go files
func Vet() error {
	fmt.Println("Vetting code...")
	return sh.Run("go", "vet", "./...")
}

// Deps downloads dependencies
func Deps() error {
	fmt.Println("Downloading dependencies...")
	return sh.Run("go", "mod", "download")
}

// Tidy tidies go.mod
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// CI runs all checks for continuous integration
func CI() error {
	mg.SerialDeps(Deps, Fmt, Vet, Test, TestDocker)
	fmt.Println("All CI checks passed!")
	return nil
}
