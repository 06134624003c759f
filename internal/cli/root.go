package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	debugMode  bool
)

// NewRootCommand builds the findword command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "findword",
		Short: "Word similarity search over pretrained embeddings",
		Long: `findword stores part-of-speech tagged English words with their
pretrained word vectors and answers similarity queries over them.

Example usage:
  findword classify              # build the classified word list
  findword embed                 # attach pretrained vectors
  findword load                  # load the corpus into storage
  findword server                # serve the HTTP API
  findword similar dog           # rank words by cosine similarity`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "config file path")
	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	root.AddCommand(
		newInitCommand(),
		newClassifyCommand(),
		newEmbedCommand(),
		newLoadCommand(),
		newServerCommand(),
		newLookupCommand(),
		newSimilarCommand(),
		newCompareCommand(),
		newSearchCommand(),
		newStatusCommand(),
	)
	return root
}

// Execute runs the findword command tree with ctx and returns its error.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
