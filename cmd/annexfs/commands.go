package annexfs

import (
	"fmt"
	"io"

	"github.com/arthur-debert/annexfs/internal/version"
	"github.com/arthur-debert/annexfs/pkg/annex"
	"github.com/arthur-debert/annexfs/pkg/config"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/arthur-debert/annexfs/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbosity  int
	configFile string
	root       string
	format     string
}

// engineOptions lets tests swap engine collaborators after configuration
// has been applied.
var engineOptions = func(*annex.Options) {}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "annexfs",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgExamples,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Options{Verbosity: opts.verbosity, Console: cmd.ErrOrStderr()})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.root, "root", "", MsgFlagRoot)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "annex", Title: "ANNEX COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newMutationCmd(opts, "create <path>", MsgCreateShort, MsgCreateLong, MsgCreated,
		(*annex.Engine).Create))
	rootCmd.AddCommand(newMutationCmd(opts, "delete <path>", MsgDeleteShort, MsgDeleteLong, MsgDeleted,
		(*annex.Engine).Delete))
	rootCmd.AddCommand(newMutationCmd(opts, "transfer-from <path>", MsgTransferFromShort, MsgTransferFromLong, MsgTransferred,
		(*annex.Engine).TransferFrom))
	rootCmd.AddCommand(newMutationCmd(opts, "transfer-to <path>", MsgTransferToShort, MsgTransferToLong, MsgRestored,
		(*annex.Engine).TransferTo))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadConfig merges and validates configuration for the current flags.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		Overrides:  map[string]interface{}{"root": opts.root},
	})
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEngine builds an engine for the configured annex root.
func newEngine(opts *globalOptions) (*annex.Engine, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	ids, err := cfg.IDSource()
	if err != nil {
		return nil, err
	}

	engineOpts := annex.Options{
		Root:            cfg.Root,
		IDs:             ids,
		ReserveAttempts: cfg.ReserveAttempts,
	}
	engineOptions(&engineOpts)
	log.Info().Str("root", cfg.Root).Str("id_policy", cfg.IDPolicy).Msg("Using annex")
	return annex.New(engineOpts), nil
}

// newRenderer builds the renderer selected by --format.
func newRenderer(opts *globalOptions, w io.Writer) (ui.Renderer, ui.Format, error) {
	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return nil, format, err
	}
	renderer, err := ui.NewRenderer(format, w)
	return renderer, format, err
}

type mutation func(e *annex.Engine, path string) (*annex.Result, error)

// newMutationCmd builds one of the four single-path commands that change the
// annex.
func newMutationCmd(opts *globalOptions, use, short, long, done string, op mutation) *cobra.Command {
	return &cobra.Command{
		Use:               use,
		Short:             short,
		Long:              long,
		Args:              cobra.ExactArgs(1),
		GroupID:           "annex",
		ValidArgsFunction: completePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, format, err := newRenderer(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			engine, err := newEngine(opts)
			if err != nil {
				return err
			}

			result, err := op(engine, args[0])
			if err != nil {
				return err
			}

			if !format.IsStructured() {
				if err := renderer.RenderMessage(fmt.Sprintf(done, result.Path)); err != nil {
					return err
				}
			}
			return renderer.RenderResult(result)
		},
	}
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Args:    cobra.NoArgs,
		GroupID: "annex",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, _, err := newRenderer(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			engine, err := newEngine(opts)
			if err != nil {
				return err
			}
			listings, err := engine.List()
			if err != nil {
				return err
			}
			return renderer.RenderResult(listings)
		},
	}
}

func newStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "status <path>",
		Short:             MsgStatusShort,
		Long:              MsgStatusLong,
		Args:              cobra.ExactArgs(1),
		GroupID:           "annex",
		ValidArgsFunction: completePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, _, err := newRenderer(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			engine, err := newEngine(opts)
			if err != nil {
				return err
			}
			status, err := engine.Status(args[0])
			if err != nil {
				return err
			}
			return renderer.RenderResult(status)
		},
	}
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if defaults {
				_, err := io.WriteString(out, config.DefaultsContent())
				return err
			}

			cfg, err := config.Load(config.LoadOptions{
				ConfigFile: opts.configFile,
				Overrides:  map[string]interface{}{"root": opts.root},
			})
			if err != nil {
				return err
			}
			rendered, err := cfg.TOML()
			if err != nil {
				return err
			}
			if cfg.Source != "" {
				fmt.Fprintf(out, MsgConfigSource, cfg.Source)
			} else {
				fmt.Fprint(out, MsgConfigNoFile)
			}
			_, err = io.WriteString(out, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completePaths completes the single path argument with file names.
func completePaths(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveDefault
}
