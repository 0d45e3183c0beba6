package cmd

import (
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go driver, matching internal/taskqueue's sqlite index

	"github.com/Aman-CERP/agentcore/internal/chunk"
	"github.com/Aman-CERP/agentcore/internal/chunkstore"
	"github.com/Aman-CERP/agentcore/internal/config"
	"github.com/Aman-CERP/agentcore/internal/gateway"
	"github.com/Aman-CERP/agentcore/internal/gitignore"
	"github.com/Aman-CERP/agentcore/internal/judge"
	"github.com/Aman-CERP/agentcore/internal/patch"
	"github.com/Aman-CERP/agentcore/internal/rules"
	"github.com/Aman-CERP/agentcore/internal/sandbox"
	"github.com/Aman-CERP/agentcore/internal/taskqueue"
	"github.com/Aman-CERP/agentcore/internal/telemetry"
	"github.com/Aman-CERP/agentcore/internal/tools"
	"github.com/Aman-CERP/agentcore/internal/vectorstore"
)

// deps bundles every collaborator a command needs, built once from loaded
// config. Commands that don't touch retrieval or the loop can ignore the
// fields they don't use.
type deps struct {
	cfg *config.Config
	dataDir string
	sandbox *sandbox.Sandbox
	chunks *chunkstore.Store
	index *vectorstore.Index
	embedder gateway.EmbeddingGateway
	queue *taskqueue.Queue
	patches *patch.Manager
	rules *rules.Engine
	metrics *telemetry.QueryMetrics
	logger *slog.Logger
}

// dataDirFor returns the project's on-disk data directory, ".agentcore"
// under the project root (kept out of ingestion by chunkstore.DefaultIgnored
// and the default exclude globs).
func dataDirFor(cfg *config.Config) string {
	return filepath.Join(cfg.Sandbox.ProjectRoot, ".agentcore")
}

// loadConfig resolves configuration for the project rooted at path.
func loadConfig(path string) (*config.Config, error) {
	root, err := config.FindProjectRoot(path)
	if err != nil {
 root = path
	}
	cfg, err := config.Load(root)
	if err != nil {
 return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildEmbedder constructs the embedding gateway named by
// cfg.Embeddings.Provider, or nil for the empty (keyword-only) provider.
func buildEmbedder(cfg *config.Config) gateway.EmbeddingGateway {
	switch cfg.Embeddings.Provider {
	case "":
 return nil
	case "static":
 return gateway.NewStaticEmbedder()
	case "ollama", "http":
 host := cfg.Embeddings.OllamaHost
 if host == "" {
 host = gateway.DefaultOllamaHost
 }
 dims := cfg.Embeddings.Dimensions
 if dims == 0 {
 dims = gateway.StaticDimensions
 }
 return gateway.NewOllamaEmbedder(host, cfg.Embeddings.Model, dims, cfg.Embeddings.BatchSize, cfg.Embeddings.Timeout)
	default:
 return nil
	}
}

// buildIgnoreMatcher loads the config's exclude globs and any project
//.gitignore into a gitignore.Matcher, grounded on internal/gitignore's
// generic pattern engine (kept decoupled from chunkstore.IngestDir, which
// only asks for an isIgnored predicate).
func buildIgnoreMatcher(cfg *config.Config) *gitignore.Matcher {
	m := gitignore.New()
	for _, pattern := range cfg.Paths.Exclude {
 m.AddPattern(pattern)
	}
	gitignorePath := filepath.Join(cfg.Sandbox.ProjectRoot, ".gitignore")
	_ = m.AddFromFile(gitignorePath, "")
	return m
}

// isIgnoredFunc adapts a gitignore.Matcher plus chunkstore's hardcoded
// baseline into the isIgnored predicate chunkstore.Store.IngestDir expects.
func isIgnoredFunc(m *gitignore.Matcher) func(relPath string) bool {
	return func(relPath string) bool {
 if chunkstore.DefaultIgnored(relPath) {
 return true
 }
 return m.Match(relPath, false)
	}
}

// languageForPath maps a file extension to its tree-sitter language name
// via the default language registry, or "" when unsupported.
func languageForPath(path string) string {
	ext := filepath.Ext(path)
	if lang, ok := chunk.DefaultRegistry().GetByExtension(ext); ok {
 return lang.Name
	}
	return ""
}

// newDeps builds every core collaborator from a loaded config. projectPath
// is the directory the command was invoked against (used to resolve the
// project root once, before anything else is built).
func newDeps(projectPath string) (*deps, error) {
	cfg, err := loadConfig(projectPath)
	if err != nil {
 return nil, err
	}

	sb, err := sandbox.New(sandbox.Config{
 WorkspaceRoot: cfg.Sandbox.WorkspaceRoot,
 ProjectRoot: cfg.Sandbox.ProjectRoot,
 BlockedDirs: cfg.Sandbox.BlockedDirs,
 SensitivePatterns: cfg.Sandbox.SensitivePatterns,
 MaxWorkspaceSizeBytes: cfg.Sandbox.MaxWorkspaceSizeBytes,
 MinFreeRAMPercent: cfg.Sandbox.MinFreeRAMPercent,
	})
	if err != nil {
 return nil, fmt.Errorf("failed to construct sandbox: %w", err)
	}

	dataDir := dataDirFor(cfg)

	chunks, err := chunkstore.Open(filepath.Join(dataDir, "manifest.json"))
	if err != nil {
 return nil, fmt.Errorf("failed to open chunk store: %w", err)
	}

	embedder := buildEmbedder(cfg)
	dims := cfg.Embeddings.Dimensions
	if dims == 0 {
 dims = gateway.StaticDimensions
	}
	idx, err := vectorstore.NewIndex(chunks, embedder, dims, filepath.Join(dataDir, "vectors"))
	if err != nil {
 return nil, fmt.Errorf("failed to open vector index: %w", err)
	}
	idx.RRFConst = cfg.Retrieval.RRFConstant

	q, err := taskqueue.Open(filepath.Join(dataDir, "queue"))
	if err != nil {
 return nil, fmt.Errorf("failed to open task queue: %w", err)
	}

	pm := patch.NewManager(filepath.Join(dataDir, "patches"))

	re := rules.NewEngine(rules.DefaultShellRules())

	metrics, err := buildQueryMetrics(dataDir)
	if err != nil {
 return nil, err
	}

	return &deps{
 cfg: cfg,
 dataDir: dataDir,
 sandbox: sb,
 chunks: chunks,
 index: idx,
 embedder: embedder,
 queue: q,
 patches: pm,
 rules: re,
 metrics: metrics,
 logger: slog.Default(),
	}, nil
}

// buildQueryMetrics opens (creating if needed) the telemetry database under
// dataDir and wires it into a QueryMetrics collector. Query telemetry is a
// supplementary signal, not a core retrieval dependency, so a failure to
// open the database degrades to in-memory-only metrics rather than failing
// the command.
func buildQueryMetrics(dataDir string) (*telemetry.QueryMetrics, error) {
	dbPath := filepath.Join(dataDir, "telemetry.db")
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
 return telemetry.NewQueryMetrics(nil), nil
	}
	if err := telemetry.InitTelemetrySchema(db); err != nil {
 _ = db.Close()
 return telemetry.NewQueryMetrics(nil), nil
	}
	store, err := telemetry.NewSQLiteMetricsStore(db)
	if err != nil {
 _ = db.Close()
 return telemetry.NewQueryMetrics(nil), nil
	}
	return telemetry.NewQueryMetrics(store), nil
}

// newEngine() builds a tools.Engine and a populated Registry from d.
func (d *deps) newEngine() (*tools.Engine, *tools.Registry, error) {
	engineCfg := tools.EngineConfig{
 ShellTimeout: d.cfg.Tools.ShellTimeout,
 FetchTimeout: d.cfg.Tools.FetchTimeout,
 FetchMaxBytes: d.cfg.Tools.FetchMaxBytes,
 ReadFileMaxBytes: d.cfg.Tools.ReadFileMaxBytes,
 SubprocessTimeout: d.cfg.Tools.SubprocessTimeout,
 SubprocessCommand: d.cfg.Tools.SubprocessCommand,
	}
	engine := tools.NewEngine(d.sandbox, d.rules, d.index, d.patches, d.queue, engineCfg)
	registry := tools.NewRegistry()

	var subprocesses *tools.SubprocessManager
	if len(d.cfg.Tools.SubprocessCommand) > 0 {
 subprocesses = tools.NewSubprocessManager(d.cfg.Tools.SubprocessCommand)
	}
	if err := engine.RegisterBuiltins(registry, subprocesses); err != nil {
 return nil, nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return engine, registry, nil
}

// judgeForLoop() constructs the judge collaborator for the agent loop.
func judgeForLoop() *judge.Judge {
	return judge.New()
}
