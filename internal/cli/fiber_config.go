//go:build !docker

package cli

import "github.com/gofiber/fiber/v3"

// createFiberConfig returns Fiber configuration for bare-metal runs, where
// the server is reached directly and the peer address is the client.
func createFiberConfig(appName string, views fiber.Views) fiber.Config {
	return fiber.Config{
		AppName: appName,
		Views:   views,
	}
}
