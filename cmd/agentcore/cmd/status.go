package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/agentcore/internal/patch"
	"github.com/Aman-CERP/agentcore/internal/taskqueue"
	"github.com/Aman-CERP/agentcore/internal/ui"
)

type statusInfo struct {
	ProjectRoot string `json:"project_root"`
	TotalFiles int `json:"total_files"`
	TotalChunks int `json:"total_chunks"`
	VectorCount int `json:"vector_count"`
	ManifestSize int64 `json:"manifest_size_bytes"`
	VectorSize int64 `json:"vector_size_bytes"`
	EmbedderType string `json:"embedder_type"`
	EmbedderModel string `json:"embedder_model,omitempty"`
	QueuedTasks int `json:"queued_tasks"`
	ProposedPatches int `json:"proposed_patches"`
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
 Use: "status",
 Short: "Show index and queue health",
 Long: `Status reports the size of the chunk and vector stores, the
configured embedder, and how many tasks and patches are outstanding.`,
 RunE: func(cmd *cobra.Command, _ []string) error {
 d, err := newDeps(".")
 if err != nil {
 return err
 }
 defer func() { _ = d.metrics.Close() }()

 dataDir := dataDirFor(d.cfg)
 if _, statErr := os.Stat(dataDir); statErr != nil {
 return fmt.Errorf("no index found in %s\nRun 'agentcore init' and 'agentcore index' first", d.cfg.Sandbox.ProjectRoot)
 }

 info := statusInfo{
 ProjectRoot: d.cfg.Sandbox.ProjectRoot,
 TotalFiles: len(distinctFiles(d)),
 TotalChunks: d.chunks.Count(),
 VectorCount: d.index.Vectors.Len(),
 ManifestSize: fileSize(filepath.Join(dataDir, "manifest.json")),
 VectorSize: dirSize(filepath.Join(dataDir, "vectors")),
 EmbedderType: d.cfg.Embeddings.Provider,
 EmbedderModel: d.cfg.Embeddings.Model,
 QueuedTasks: len(d.queue.List(taskqueue.StatusQueued)),
 ProposedPatches: len(mustPatches(d)),
 }

 if jsonOutput {
 enc := json.NewEncoder(cmd.OutOrStdout())
 enc.SetIndent("", " ")
 return enc.Encode(info)
 }

 styles := ui.StylesFor(cmd.OutOrStdout())
 _, _ = fmt.Fprintln(cmd.OutOrStdout(), styles.Header.Render(fmt.Sprintf("agentcore status — %s", info.ProjectRoot)))
 _, _ = fmt.Fprintf(cmd.OutOrStdout(),
 "Files: %d\nChunks: %d\nVectors: %d\nManifest: %d bytes\nVectors: %d bytes\nEmbedder: %s %s\nQueued: %d tasks\nPatches: %d proposed\n",
 info.TotalFiles, info.TotalChunks, info.VectorCount,
 info.ManifestSize, info.VectorSize, info.EmbedderType, info.EmbedderModel,
 info.QueuedTasks, info.ProposedPatches)
 return nil
 },
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func distinctFiles(d *deps) []string {
	seen := map[string]struct{}{}
	for _, c := range d.chunks.AllChunks() {
 seen[c.SourcePath] = struct{}{}
	}
	files := make([]string, 0, len(seen))
	for p := range seen {
 files = append(files, p)
	}
	return files
}

func mustPatches(d *deps) []patch.Patch {
	list, err := d.patches.List(patch.StatusProposed)
	if err != nil {
 return nil
	}
	return list
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
 return 0
	}
	return info.Size()
}

func dirSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
 if err != nil {
 return nil
 }
 if !info.IsDir() {
 size += info.Size()
 }
 return nil
	})
	return size
}
