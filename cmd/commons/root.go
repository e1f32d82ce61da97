package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/five82/commons/internal/app"
	"github.com/five82/commons/internal/config"
)

// cli carries the global flags and output streams to every subcommand.
type cli struct {
	configPath string
	logLevel   string
	prefsPath  string

	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}
	var link string

	root := &cobra.Command{
		Use:   "commons",
		Short: "Browse the campus forum from the terminal",
		Long: "commons searches and filters forum threads by keyword, #tags and category.\n" +
			"Every view has a deep link (q, tag, category, page) that can be copied,\n" +
			"shared and reopened with --link.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: c.configPath,
				PrefsPath:  c.prefsPath,
				Link:       link,
				LogLevel:   c.logLevel,
			})
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&c.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	root.Flags().StringVar(&c.prefsPath, "prefs", "", "prefs file (default ~/.config/commons/prefs.toml)")
	root.Flags().StringVar(&link, "link", "", "deep link to open, e.g. \"q=exam&tag=cs101\"")

	root.AddCommand(
		newSearchCmd(c),
		newLinkCmd(c),
		newCategoriesCmd(c),
		newTagsCmd(c),
		newHistoryCmd(c),
		newVersionCmd(c),
	)
	return root
}

// loadConfig applies --config and --log-level.
func (c *cli) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	return cfg, nil
}

// stack builds the discovery pipeline with a console logger on stderr.
func (c *cli) stack() (*app.Stack, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.Build(cfg, app.NewConsoleLogger(c.errOut, cfg.Logging.Level))
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the commons version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			_, _ = io.WriteString(c.out, "commons "+app.Version+"\n")
		},
	}
}
