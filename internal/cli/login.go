package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mayukh-Jain/equipviz/internal/cli/client"
	"github.com/Mayukh-Jain/equipviz/internal/cli/config"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login [server]",
	Short: "Authenticate with the equipviz server",
	Long: `Authenticate with the equipviz API server and save the access token
locally. The token is stored in ~/.equipvizctl/config.json and attached
automatically to upload requests until it expires or you login again.

If server is not provided, defaults to http://localhost:8080.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username for authentication")
}

func runLogin(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	server := "http://localhost:8080"
	if len(args) > 0 {
		server = args[0]
	}

	if loginUsername == "" {
		prompt := &survey.Input{Message: "Username:"}
		if err := survey.AskOne(prompt, &loginUsername, survey.WithValidator(survey.Required)); err != nil {
			exitError("failed to read username: %v", err)
		}
	}

	var password string
	prompt := &survey.Password{Message: "Password:"}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.Required)); err != nil {
		exitError("failed to read password: %v", err)
	}

	c, err := client.New(server, "")
	if err != nil {
		exitError("%v", err)
	}

	token, err := c.Login(ctx, loginUsername, password)
	if err != nil {
		exitError("login failed: %v", err)
	}

	cfg := &config.Config{
		Server:      server,
		AccessToken: token,
		Username:    loginUsername,
	}
	if err := cfg.Save(); err != nil {
		exitError("failed to save config: %v", err)
	}

	configPath, _ := config.Path()
	color.New(color.FgGreen).Printf("Logged in as %s\n", loginUsername)
	fmt.Printf("Token saved to %s\n", configPath)
}
