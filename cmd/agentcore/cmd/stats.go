package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

type statsInfo struct {
	TotalChunks int `json:"total_chunks"`
	ByChunkType map[string]int `json:"by_chunk_type"`
	ByExtension map[string]int `json:"by_extension"`
	EmbeddedCount int `json:"embedded_count"`
	AvgChunkLines float64 `json:"avg_chunk_lines"`
}

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
 Use: "stats",
 Short: "Show chunk and embedding breakdown by type and extension",
 RunE: func(cmd *cobra.Command, _ []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()
 info := collectStats(d)

 if jsonOutput {
 enc := json.NewEncoder(cmd.OutOrStdout())
 enc.SetIndent("", " ")
 return enc.Encode(info)
 }

 _, _ = fmt.Fprintf(cmd.OutOrStdout(), "Total chunks: %d\nEmbedded: %d\nAvg chunk size: %.1f lines\n\nBy chunk type:\n", info.TotalChunks, info.EmbeddedCount, info.AvgChunkLines)
 for _, k := range sortedKeys(info.ByChunkType) {
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), " %-10s %d\n", k, info.ByChunkType[k])
 }
 _, _ = fmt.Fprintln(cmd.OutOrStdout(), "\nBy extension:")
 for _, k := range sortedKeys(info.ByExtension) {
 _, _ = fmt.Fprintf(cmd.OutOrStdout(), " %-10s %d\n", k, info.ByExtension[k])
 }
 return nil
 },
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func collectStats(d *deps) statsInfo {
	info := statsInfo{
 ByChunkType: map[string]int{},
 ByExtension: map[string]int{},
	}

	chunks := d.chunks.AllChunks()
	info.TotalChunks = len(chunks)

	var totalLines int
	for _, c := range chunks {
 info.ByChunkType[string(c.ChunkType)]++
 ext := filepath.Ext(c.SourcePath)
 if ext == "" {
 ext = "(none)"
 }
 info.ByExtension[ext]++
 totalLines += c.EndLine - c.StartLine + 1
 if d.index.Vectors.Has(c.ChunkID) {
 info.EmbeddedCount++
 }
	}
	if info.TotalChunks > 0 {
 info.AvgChunkLines = float64(totalLines) / float64(info.TotalChunks)
	}
	return info
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
 keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
