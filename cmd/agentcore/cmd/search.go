package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/chunkstore"
	"github.com/Aman-CERP/agentcore/internal/telemetry"
	"github.com/Aman-CERP/agentcore/internal/vectorstore"
)

func newSearchCmd() *cobra.Command {
	var (
 limit int
 pathPrefix string
 fileType string
	)

	cmd := &cobra.Command{
 Use: "search <query>",
 Short: "Run a hybrid (keyword + semantic) search over the indexed codebase",
 Args: cobra.MinimumNArgs(1),
 RunE: func(cmd *cobra.Command, args []string) error {
 query := strings.Join(args, " ")

 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()

 if limit <= 0 {
 limit = d.cfg.Retrieval.MaxResults
 }
 weights := vectorstore.Weights{
 Keyword: d.cfg.Retrieval.KeywordWeight,
 Semantic: d.cfg.Retrieval.SemanticWeight,
 }
 filters := chunkstore.SearchFilters{PathPrefix: pathPrefix, FileType: fileType}

 start := time.Now()
 results, err := d.index.Search(cmd.Context(), query, limit, filters, weights)
 recordSearchTelemetry(d, query, results, time.Since(start))
 if err != nil {
 return fmt.Errorf("search failed: %w", err)
 }
 if len(results) == 0 {
 _, _ = fmt.Fprintln(cmd.OutOrStdout(), "No results.")
 return nil
 }
 for i, r := range results {
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d. %s:%d-%d (rrf=%.4f)\n%s\n\n",
 i+1, r.Chunk.SourcePath, r.Chunk.StartLine, r.Chunk.EndLine, r.RRFScore, r.Snippet)
 }
 return nil
 },
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (defaults to retrieval.max_results)")
	cmd.Flags().StringVar(&pathPrefix, "path-prefix", "", "Restrict to source paths with this prefix")
	cmd.Flags().StringVar(&fileType, "file-type", "", "Restrict to a file extension, e.g..go")

	return cmd
}

// recordSearchTelemetry classifies a completed search by which source(s)
// matched and feeds it into the project's query metrics collector.
func recordSearchTelemetry(d *deps, query string, results []vectorstore.FusedResult, latency time.Duration) {
	if d.metrics == nil {
 return
	}
	qt := telemetry.QueryTypeLexical
	if len(results) > 0 && results[0].InBothLists {
 qt = telemetry.QueryTypeMixed
	} else if d.embedder != nil {
 qt = telemetry.QueryTypeSemantic
	}
	d.metrics.Record(telemetry.QueryEvent{
 Query: query,
 QueryType: qt,
 ResultCount: len(results),
 Latency: latency,
 Timestamp: time.Now(),
	})
}
