package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string
	dbFile  string

	// jsonFlag enables JSON output for all commands.
	jsonFlag    bool
	verboseFlag bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "triagemail",
		Short: "Rule and AI assisted email triage",
		Long: "triagemail sorts a mailbox with user rules and AI label suggestions,\n" +
			"and keeps the selection stable across bulk actions.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetFlags(log.LstdFlags)
			if verboseFlag {
				log.SetOutput(os.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if shell, _ := cmd.Flags().GetString("generate-completion"); shell != "" {
				switch shell {
				case "bash":
					return cmd.Root().GenBashCompletion(os.Stdout)
				case "zsh":
					return cmd.Root().GenZshCompletion(os.Stdout)
				case "fish":
					return cmd.Root().GenFishCompletion(os.Stdout, true)
				default:
					return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
				}
			}
			return cmd.Help()
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("triagemail %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().String("generate-completion", "", "Generate shell completion (bash, zsh, fish)")
	root.Flags().MarkHidden("generate-completion")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().StringVar(&dbFile, "db", "", "database file path (defaults to the data directory)")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(newInitCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newReadCmd(true))
	root.AddCommand(newReadCmd(false))
	root.AddCommand(newMoveCmd())
	root.AddCommand(newArchiveCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newJunkCmd())
	root.AddCommand(newEmptyTrashCmd())
	root.AddCommand(newLabelCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newSendCmd())
	root.AddCommand(newCountsCmd())
	root.AddCommand(newLabelsCmd())
	root.AddCommand(newTrainingCmd())
	root.AddCommand(newContactsCmd())
	root.AddCommand(newRulesCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
