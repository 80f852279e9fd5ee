package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/hyperwalk-io/hyperwalk/internal/constants"
	"github.com/hyperwalk-io/hyperwalk/pkg/hyperclient"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		api   string
		token string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an API root and bearer token",
		Long: `Verify a bearer token against an API root and save both to the config
file so later commands can omit --api and --token. The token is read
from --token or prompted for without echo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if api == "" {
				api = viper.GetString("api")
			}

			if api == "" {
				return ErrAPIRootRequired
			}

			if token == "" {
				fmt.Print("Token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))

				fmt.Println()

				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}

				token = strings.TrimSpace(string(byteToken))
			}

			if token == "" {
				return ErrTokenRequired
			}

			client, err := hyperclient.NewWithToken(api, token)
			if err != nil {
				return err
			}

			// A failed fetch of the root document means the endpoint or
			// token is wrong; surface that before saving anything.
			if err := client.Root().EnsureLoaded(cmd.Context()); err != nil {
				return fmt.Errorf("verifying credentials: %w", err)
			}

			if err := saveConfig(client.RootURL(), token); err != nil {
				return err
			}

			fmt.Printf("Logged in to %s\n", client.RootURL())

			return nil
		},
	}

	cmd.Flags().StringVar(&api, "api", "", "API root URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (prompted when omitted)")

	return cmd
}

// saveConfig writes the API root and token to the default config file.
func saveConfig(api, token string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("finding home directory: %w", err)
	}

	configDir := filepath.Join(home, ".hyperwalk")
	if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(map[string]string{
		"api":   api,
		"token": token,
	})
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yml")
	if err := os.WriteFile(configPath, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
