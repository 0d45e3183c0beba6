package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
 Use: "index [path]",
 Short: "Ingest a directory into the chunk and vector stores",
 Long: `Index walks a directory, chunking source files and documents and
writing them into the chunk store. If an embedding provider is configured,
each new or changed chunk is also embedded into the vector store; otherwise
retrieval degrades to keyword-only search.

Files matched by the project's.gitignore or the configured exclude globs
are skipped, alongside the built-in baseline (.git, node_modules, vendor,
build output, and files that look like secrets).`,
 Args: cobra.MaximumNArgs(1),
 RunE: func(cmd *cobra.Command, args []string) error {
 ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
 defer stop()

 path := "."
 if len(args) > 0 {
 path = args[0]
 }
 absPath, err := filepath.Abs(path)
 if err != nil {
 return fmt.Errorf("failed to resolve path: %w", err)
 }

 d, err := newDeps(absPath)
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()

 matcher := buildIgnoreMatcher(d.cfg)
 ingested, skipped, err := d.chunks.IngestDir(ctx, absPath, isIgnoredFunc(matcher), languageForPath)
 if err != nil {
 return fmt.Errorf("ingest failed: %w", err)
 }
 if err := d.chunks.Save(); err != nil {
 return fmt.Errorf("failed to save chunk store: %w", err)
 }

 if d.embedder != nil {
 embedded := 0
 for _, c := range d.chunks.AllChunks() {
 if d.index.Vectors.Has(c.ChunkID) {
 continue
 }
 if err := d.index.IndexChunk(ctx, c); err != nil {
 return fmt.Errorf("failed to embed chunk %s: %w", c.ChunkID, err)
 }
 embedded++
 }
 if err := d.index.Save(); err != nil {
 return fmt.Errorf("failed to save vector index: %w", err)
 }
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d files (%d skipped, %d new chunks embedded)\n", ingested, skipped, embedded)
 return nil
 }

 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d files (%d skipped); no embedding provider configured, keyword-only retrieval\n", ingested, skipped)
 return nil
 },
	}

	return cmd
}
