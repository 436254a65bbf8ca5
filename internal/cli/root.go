// Package cli implements the nutrifit command line client.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nutrifit/nutrifit-backend/internal/insights/client"
	"github.com/nutrifit/nutrifit-backend/internal/session"
)

type options struct {
	configPath string
	apiURL     string
	token      string
	userID     string
	output     string
	timeout    time.Duration
	verbose    bool

	api        *client.Client
	controller *session.Controller
}

// NewRootCmd builds the nutrifit command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "nutrifit",
		Short:         "AI suggestions and insights from the command line",
		Long:          "nutrifit talks to the NutriFit API to request, show and clear AI suggestions and insights.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "config file (default ~/.config/nutrifit/config.toml)")
	flags.StringVar(&o.apiURL, "api-url", "", "API base URL")
	flags.StringVar(&o.token, "token", "", "Firebase ID token")
	flags.StringVar(&o.userID, "user", "", "user id for servers without Firebase")
	flags.StringVarP(&o.output, "output", "o", "text", "output format: text, json or yaml")
	flags.DurationVar(&o.timeout, "timeout", 60*time.Second, "request timeout")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(newSuggestCmd(o), newInsightsCmd(o))
	return root
}

func (o *options) setup(cmd *cobra.Command) error {
	if o.verbose {
		log.SetOutput(cmd.ErrOrStderr())
	} else {
		log.SetOutput(io.Discard)
	}
	switch o.output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}

	path := o.configPath
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if o.apiURL == "" {
		o.apiURL = cfg.APIURL
	}
	if o.apiURL == "" {
		o.apiURL = DefaultAPIURL
	}
	if o.token == "" {
		o.token = cfg.Token
	}
	if o.userID == "" {
		o.userID = cfg.UserID
	}

	opts := []client.Option{client.WithTimeout(o.timeout)}
	if o.token != "" {
		opts = append(opts, client.WithToken(o.token))
	}
	if o.userID != "" {
		opts = append(opts, client.WithUserID(o.userID))
	}
	o.api = client.New(o.apiURL, opts...)
	o.controller = session.New(o.api, o.api)
	return nil
}

// reportedError marks errors whose message was already shown as a notice.
type reportedError struct{ error }

// report prints n to stderr and returns err marked as reported.
func report(cmd *cobra.Command, n session.Notice, err error) error {
	if !n.IsZero() {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", n.Level, n.Message)
	}
	if err != nil && !n.IsZero() {
		return reportedError{err}
	}
	return err
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	err := NewRootCmd().Execute()
	if err == nil {
		return 0
	}
	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return 1
}
