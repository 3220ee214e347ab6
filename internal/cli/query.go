package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"kalebbot/internal/usecase"
)

var (
	queryText string
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the knowledge base",
	Long: `Search the indexed knowledge base for chunks semantically close to
the query.

Examples:
  kalebbot query -q "vacation policy"
  kalebbot query -q "reimbursement rules" -k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	retriever := usecase.NewEagerRetriever(newSnapshotStore(), embedderFactory(), log, retrieverOptions()...)

	switch retriever.LoadState() {
	case usecase.StateMissingFiles:
		return fmt.Errorf("no knowledge base found. Run 'kalebbot index' first")
	case usecase.StateProviderError:
		return fmt.Errorf("knowledge base could not be loaded; check the embedding provider settings")
	}

	results := retriever.Search(queryText, queryTopK)

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, res := range results {
		fmt.Printf("%d. [%s] (distance %.4f)\n   %s\n", i+1, res.Source, res.Distance, res.Text)
	}
	return nil
}
