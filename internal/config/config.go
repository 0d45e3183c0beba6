// Package config loads and validates agentcore's YAML configuration, using
// a layered-precedence model: hardcoded defaults, then user/global config,
// then project config, then environment variable overrides, in increasing
// precedence. Settings cover the sandbox, retrieval, tool, and agent loop
// budgets, plus timestamped on-disk backups of prior config versions.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the type of project detected at project_root.
type ProjectType string

const (
	ProjectTypeGo ProjectType = "go"
	ProjectTypeNode ProjectType = "node"
	ProjectTypePython ProjectType = "python"
	ProjectTypeUnknown ProjectType = "unknown"
)

// Config is agentcore's complete configuration.
type Config struct {
	Version int `yaml:"version" json:"version"`
	Sandbox SandboxConfig `yaml:"sandbox" json:"sandbox"`
	Paths PathsConfig `yaml:"paths" json:"paths"`
	Retrieval RetrievalConfig `yaml:"retrieval" json:"retrieval"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Tools ToolsConfig `yaml:"tools" json:"tools"`
	Loop LoopConfig `yaml:"loop" json:"loop"`
	Session SessionConfig `yaml:"session" json:"session"`
	Log LogConfig `yaml:"log" json:"log"`
}

// SandboxConfig configures the confinement roots and resource circuit
// breaker consumed by sandbox.Config.
type SandboxConfig struct {
	// WorkspaceRoot is the only directory tree the agent may write under.
	// Relative to project_root when not absolute.
	WorkspaceRoot string `yaml:"workspace_root" json:"workspace_root"`
	// ProjectRoot is the enclosing, read-only project tree. Empty means the
	// directory config.Load was called with.
	ProjectRoot string `yaml:"project_root" json:"project_root"`
	// BlockedDirs are additional directory names blocked everywhere.
	BlockedDirs []string `yaml:"blocked_dirs" json:"blocked_dirs"`
	// SensitivePatterns extend the sandbox's built-in sensitive-file patterns.
	SensitivePatterns []string `yaml:"sensitive_patterns" json:"sensitive_patterns"`
	// MaxWorkspaceSizeBytes is the workspace size circuit-breaker threshold; 0 disables it.
	MaxWorkspaceSizeBytes int64 `yaml:"max_workspace_size_bytes" json:"max_workspace_size_bytes"`
	// MinFreeRAMPercent is the minimum free RAM percent circuit-breaker threshold; 0 disables it.
	MinFreeRAMPercent float64 `yaml:"min_free_ram_percent" json:"min_free_ram_percent"`
}

// PathsConfig configures which paths the chunk store ingests.
type PathsConfig struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// RetrievalConfig configures chunking and hybrid retrieval.
//
//	1. User config (~/.config/agentcore/config.yaml) - personal defaults
//	2. Project config (.agentcore.yaml) - per-repo tuning
//	3. Env vars (AGENTCORE_KEYWORD_WEIGHT, AGENTCORE_SEMANTIC_WEIGHT, AGENTCORE_RRF_CONSTANT) - highest priority
type RetrievalConfig struct {
	// KeywordWeight weights the BM25-style keyword list in RRF fusion.
	KeywordWeight float64 `yaml:"keyword_weight" json:"keyword_weight"`
	// SemanticWeight weights the vector list in RRF fusion.
	SemanticWeight float64 `yaml:"semantic_weight" json:"semantic_weight"`
	// RRFConstant is the RRF fusion smoothing parameter k (default 60, matching
	// vectorstore.DefaultRRFConstant and the industry-standard value used by
	// Azure AI Search and OpenSearch).
	RRFConstant int `yaml:"rrf_constant" json:"rrf_constant"`
	ChunkSize int `yaml:"chunk_size" json:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`
	MaxResults int `yaml:"max_results" json:"max_results"`
}

// EmbeddingsConfig configures the optional embedding gateway.
// An empty Provider degrades retrieval to keyword-only.
type EmbeddingsConfig struct {
	Provider string `yaml:"provider" json:"provider"`
	Model string `yaml:"model" json:"model"`
	Dimensions int `yaml:"dimensions" json:"dimensions"`
	BatchSize int `yaml:"batch_size" json:"batch_size"`
	OllamaHost string `yaml:"ollama_host" json:"ollama_host"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// ToolsConfig configures the built-in tool set's timeouts and size caps
//, mirroring tools.EngineConfig.
type ToolsConfig struct {
	ShellTimeout time.Duration `yaml:"shell_timeout" json:"shell_timeout"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout"`
	FetchMaxBytes int64 `yaml:"fetch_max_bytes" json:"fetch_max_bytes"`
	ReadFileMaxBytes int64 `yaml:"read_file_max_bytes" json:"read_file_max_bytes"`
	SubprocessTimeout time.Duration `yaml:"subprocess_timeout" json:"subprocess_timeout"`
	SubprocessCommand []string `yaml:"subprocess_command" json:"subprocess_command"`
}

// LoopConfig configures the agent loop's step and per-step tool budgets
//.
type LoopConfig struct {
	MaxSteps int `yaml:"max_steps" json:"max_steps"`
	MaxToolsPerStep int `yaml:"max_tools_per_step" json:"max_tools_per_step"`
}

// SessionConfig configures persistence of AgentState across process
// restarts.
type SessionConfig struct {
	StoragePath string `yaml:"storage_path" json:"storage_path"`
	AutoSave bool `yaml:"auto_save" json:"auto_save"`
	MaxSessions int `yaml:"max_sessions" json:"max_sessions"`
}

// LogConfig configures this codebase-style structured logger.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File string `yaml:"file" json:"file"`
}

// defaultExcludePatterns are always excluded from ingestion.
var defaultExcludePatterns = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/vendor/**",
	"**/__pycache__/**",
	"**/dist/**",
	"**/build/**",
	"**/*.min.js",
	"**/*.min.css",
	"**/package-lock.json",
	"**/yarn.lock",
	"**/pnpm-lock.yaml",
	"**/go.sum",
}

// NewConfig() returns a Config with agentcore's defaults.
func NewConfig() *Config {
	return &Config{
 Version: 1,
 Sandbox: SandboxConfig{
 WorkspaceRoot: "workspace",
 BlockedDirs: []string{"patches"},
 MaxWorkspaceSizeBytes: 2 << 30, // 2 GiB
 MinFreeRAMPercent: 5,
 },
 Paths: PathsConfig{
 Include: []string{},
 Exclude: defaultExcludePatterns,
 },
 Retrieval: RetrievalConfig{
 KeywordWeight: 1.0,
 SemanticWeight: 1.0,
 RRFConstant: 60,
 ChunkSize: 1500,
 ChunkOverlap: 200,
 MaxResults: 20,
 },
 Embeddings: EmbeddingsConfig{
 Provider: "", // empty triggers keyword-only retrieval
 Model: "nomic-embed-text",
 Dimensions: 0, // auto-detect from embedder
 BatchSize: 32,
 OllamaHost: "",
 Timeout: 30 * time.Second,
 },
 Tools: ToolsConfig{
 ShellTimeout: 30 * time.Second,
 FetchTimeout: 15 * time.Second,
 FetchMaxBytes: 5 << 20,
 ReadFileMaxBytes: 2 << 20,
 SubprocessTimeout: 30 * time.Second,
 },
 Loop: LoopConfig{
 MaxSteps: 25,
 MaxToolsPerStep: 8,
 },
 Session: SessionConfig{
 StoragePath: defaultSessionsPath(),
 AutoSave: true,
 MaxSessions: 20,
 },
 Log: LogConfig{
 Level: "info",
 },
	}
}

// defaultSessionsPath() returns the default session storage directory.
func defaultSessionsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
 return filepath.Join(os.TempDir(), ".agentcore", "sessions")
	}
	return filepath.Join(home, ".agentcore", "sessions")
}

// GetUserConfigPath() returns the path to the user/global configuration file,
// following the XDG Base Directory specification:
// - $XDG_CONFIG_HOME/agentcore/config.yaml (if XDG_CONFIG_HOME is set)
// - ~/.config/agentcore/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
 return filepath.Join(xdg, "agentcore", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
 return filepath.Join(os.TempDir(), ".config", "agentcore", "config.yaml")
	}
	return filepath.Join(home, ".config", "agentcore", "config.yaml")
}

// GetUserConfigDir() returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists() reports whether the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// loadUserConfig() loads the user/global configuration file if it exists.
// A nil config and nil error means no user config is present, which is fine.
func loadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
 return nil, nil
	}
	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
 return nil, fmt.Errorf("failed to load() user config from %s: %w", configPath, err)
	}
	return cfg, nil
}

// Load loads configuration for the project rooted at dir, applying
// precedence in increasing order: hardcoded defaults, user/global config
// (~/.config/agentcore/config.yaml), project config (.agentcore.yaml in
// dir), then AGENTCORE_* environment variable overrides.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
 return nil, fmt.Errorf("failed to load() user config: %w", err)
	} else if userCfg != nil {
 cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
 return nil, err
	}

	cfg.applyEnvOverrides()

	if cfg.Sandbox.ProjectRoot == "" {
 absDir, err := filepath.Abs(dir)
 if err != nil {
 return nil, fmt.Errorf("failed to resolve project root: %w", err)
 }
 cfg.Sandbox.ProjectRoot = absDir
	}
	if !filepath.IsAbs(cfg.Sandbox.WorkspaceRoot) {
 cfg.Sandbox.WorkspaceRoot = filepath.Join(cfg.Sandbox.ProjectRoot, cfg.Sandbox.WorkspaceRoot)
	}

	if err := cfg.Validate(); err != nil {
 return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile attempts to load() configuration from.agentcore.yaml or
//.agentcore.yml in dir; absence of either is not an error.
func (c *Config) loadFromFile(dir string) error {
	yamlPath := filepath.Join(dir, ".agentcore.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
 return c.loadYAML(yamlPath)
	}
	ymlPath := filepath.Join(dir, ".agentcore.yml")
	if _, err := os.Stat(ymlPath); err == nil {
 return c.loadYAML(ymlPath)
	}
	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
 return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
 return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges other's non-zero values into c, used for layering
// user config under project config under defaults.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
 c.Version = other.Version
	}

	if other.Sandbox.WorkspaceRoot != "" {
 c.Sandbox.WorkspaceRoot = other.Sandbox.WorkspaceRoot
	}
	if other.Sandbox.ProjectRoot != "" {
 c.Sandbox.ProjectRoot = other.Sandbox.ProjectRoot
	}
	if len(other.Sandbox.BlockedDirs) > 0 {
 c.Sandbox.BlockedDirs = other.Sandbox.BlockedDirs
	}
	if len(other.Sandbox.SensitivePatterns) > 0 {
 c.Sandbox.SensitivePatterns = other.Sandbox.SensitivePatterns
	}
	if other.Sandbox.MaxWorkspaceSizeBytes != 0 {
 c.Sandbox.MaxWorkspaceSizeBytes = other.Sandbox.MaxWorkspaceSizeBytes
	}
	if other.Sandbox.MinFreeRAMPercent != 0 {
 c.Sandbox.MinFreeRAMPercent = other.Sandbox.MinFreeRAMPercent
	}

	if len(other.Paths.Include) > 0 {
 c.Paths.Include = other.Paths.Include
	}
	if len(other.Paths.Exclude) > 0 {
 c.Paths.Exclude = append(c.Paths.Exclude, other.Paths.Exclude...)
	}

	if other.Retrieval.KeywordWeight != 0 {
 c.Retrieval.KeywordWeight = other.Retrieval.KeywordWeight
	}
	if other.Retrieval.SemanticWeight != 0 {
 c.Retrieval.SemanticWeight = other.Retrieval.SemanticWeight
	}
	if other.Retrieval.RRFConstant != 0 {
 c.Retrieval.RRFConstant = other.Retrieval.RRFConstant
	}
	if other.Retrieval.ChunkSize != 0 {
 c.Retrieval.ChunkSize = other.Retrieval.ChunkSize
	}
	if other.Retrieval.ChunkOverlap != 0 {
 c.Retrieval.ChunkOverlap = other.Retrieval.ChunkOverlap
	}
	if other.Retrieval.MaxResults != 0 {
 c.Retrieval.MaxResults = other.Retrieval.MaxResults
	}

	if other.Embeddings.Provider != "" {
 c.Embeddings.Provider = other.Embeddings.Provider
	}
	if other.Embeddings.Model != "" {
 c.Embeddings.Model = other.Embeddings.Model
	}
	if other.Embeddings.Dimensions != 0 {
 c.Embeddings.Dimensions = other.Embeddings.Dimensions
	}
	if other.Embeddings.BatchSize != 0 {
 c.Embeddings.BatchSize = other.Embeddings.BatchSize
	}
	if other.Embeddings.OllamaHost != "" {
 c.Embeddings.OllamaHost = other.Embeddings.OllamaHost
	}
	if other.Embeddings.Timeout != 0 {
 c.Embeddings.Timeout = other.Embeddings.Timeout
	}

	if other.Tools.ShellTimeout != 0 {
 c.Tools.ShellTimeout = other.Tools.ShellTimeout
	}
	if other.Tools.FetchTimeout != 0 {
 c.Tools.FetchTimeout = other.Tools.FetchTimeout
	}
	if other.Tools.FetchMaxBytes != 0 {
 c.Tools.FetchMaxBytes = other.Tools.FetchMaxBytes
	}
	if other.Tools.ReadFileMaxBytes != 0 {
 c.Tools.ReadFileMaxBytes = other.Tools.ReadFileMaxBytes
	}
	if other.Tools.SubprocessTimeout != 0 {
 c.Tools.SubprocessTimeout = other.Tools.SubprocessTimeout
	}
	if len(other.Tools.SubprocessCommand) > 0 {
 c.Tools.SubprocessCommand = other.Tools.SubprocessCommand
	}

	if other.Loop.MaxSteps != 0 {
 c.Loop.MaxSteps = other.Loop.MaxSteps
	}
	if other.Loop.MaxToolsPerStep != 0 {
 c.Loop.MaxToolsPerStep = other.Loop.MaxToolsPerStep
	}

	if other.Session.StoragePath != "" {
 c.Session.StoragePath = other.Session.StoragePath
 c.Session.AutoSave = other.Session.AutoSave
	}
	if other.Session.MaxSessions > 0 {
 c.Session.MaxSessions = other.Session.MaxSessions
	}

	if other.Log.Level != "" {
 c.Log.Level = other.Log.Level
	}
	if other.Log.File != "" {
 c.Log.File = other.Log.File
	}
}

// applyEnvOverrides() applies AGENTCORE_* environment variable overrides,
// the highest-precedence layer.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AGENTCORE_KEYWORD_WEIGHT"); v != "" {
 if w, err := parseFloat64(v); err == nil && w >= 0 {
 c.Retrieval.KeywordWeight = w
 }
	}
	if v := os.Getenv("AGENTCORE_SEMANTIC_WEIGHT"); v != "" {
 if w, err := parseFloat64(v); err == nil && w >= 0 {
 c.Retrieval.SemanticWeight = w
 }
	}
	if v := os.Getenv("AGENTCORE_RRF_CONSTANT"); v != "" {
 if k, err := strconv.Atoi(v); err == nil && k > 0 {
 c.Retrieval.RRFConstant = k
 }
	}
	if v := os.Getenv("AGENTCORE_EMBEDDINGS_PROVIDER"); v != "" {
 c.Embeddings.Provider = v
	}
	if v := os.Getenv("AGENTCORE_EMBEDDINGS_MODEL"); v != "" {
 c.Embeddings.Model = v
	}
	if v := os.Getenv("AGENTCORE_OLLAMA_HOST"); v != "" {
 c.Embeddings.OllamaHost = v
	}
	if v := os.Getenv("AGENTCORE_WORKSPACE_ROOT"); v != "" {
 c.Sandbox.WorkspaceRoot = v
	}
	if v := os.Getenv("AGENTCORE_PROJECT_ROOT"); v != "" {
 c.Sandbox.ProjectRoot = v
	}
	if v := os.Getenv("AGENTCORE_MAX_STEPS"); v != "" {
 if n, err := strconv.Atoi(v); err == nil && n > 0 {
 c.Loop.MaxSteps = n
 }
	}
	if v := os.Getenv("AGENTCORE_MAX_TOOLS_PER_STEP"); v != "" {
 if n, err := strconv.Atoi(v); err == nil && n > 0 {
 c.Loop.MaxToolsPerStep = n
 }
	}
	if v := os.Getenv("AGENTCORE_LOG_LEVEL"); v != "" {
 c.Log.Level = v
	}
}

// parseFloat64 parses a string to float64, used for config parsing.
func parseFloat64(s string) (float64, error) {
	var f float64
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &f)
	return f, err
}

// DetectProjectType detects the project type based on marker files.
// Priority: go.mod > package.json > pyproject.toml/requirements.txt.
func DetectProjectType(dir string) ProjectType {
	if fileExists(filepath.Join(dir, "go.mod")) {
 return ProjectTypeGo
	}
	if fileExists(filepath.Join(dir, "package.json")) {
 return ProjectTypeNode
	}
	if fileExists(filepath.Join(dir, "pyproject.toml")) ||
 fileExists(filepath.Join(dir, "requirements.txt")) {
 return ProjectTypePython
	}
	return ProjectTypeUnknown
}

// FindProjectRoot walks up from startDir looking for a.git directory or an
//.agentcore.yaml/.yml file, falling back to startDir itself.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
 return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
 if dirExists(filepath.Join(currentDir, ".git")) {
 return currentDir, nil
 }
 if fileExists(filepath.Join(currentDir, ".agentcore.yaml")) ||
 fileExists(filepath.Join(currentDir, ".agentcore.yml")) {
 return currentDir, nil
 }
 parentDir := filepath.Dir(currentDir)
 if parentDir == currentDir {
 return absDir, nil
 }
 currentDir = parentDir
	}
}

// DiscoverSourceDirs discovers common source directories in the project.
func DiscoverSourceDirs(dir string) []string {
	commonSourceDirs := []string{"src", "lib", "pkg", "internal", "cmd"}
	frameworkDirs := []string{"app", "pages"}

	var found []string
	for _, d := range commonSourceDirs {
 if dirExists(filepath.Join(dir, d)) {
 found = append(found, d)
 }
	}
	if isNextJS(dir) {
 for _, d := range frameworkDirs {
 if dirExists(filepath.Join(dir, d)) {
 found = append(found, d)
 }
 }
	}
	return found
}

// DiscoverDocsDirs discovers documentation directories in the project.
func DiscoverDocsDirs(dir string) []string {
	commonDocDirs := []string{"docs", "doc"}
	commonDocFiles := []string{"README.md", "readme.md", "README.markdown"}

	var found []string
	for _, d := range commonDocDirs {
 if dirExists(filepath.Join(dir, d)) {
 found = append(found, d)
 }
	}
	for _, f := range commonDocFiles {
 if fileExists(filepath.Join(dir, f)) {
 found = append(found, f)
 break
 }
	}
	return found
}

// isNextJS checks if the project is a Next.js project.
func isNextJS(dir string) bool {
	pkgPath := filepath.Join(dir, "package.json")
	if !fileExists(pkgPath) {
 return false
	}
	data, err := os.ReadFile(pkgPath)
	if err != nil {
 return false
	}
	var pkg struct {
 Dependencies map[string]string `json:"dependencies"`
 DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
 return false
	}
	_, hasNext := pkg.Dependencies["next"]
	_, hasNextDev := pkg.DevDependencies["next"]
	return hasNext || hasNextDev
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
 return false
	}
	return !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
 return false
	}
	return info.IsDir()
}

// String returns a string representation of ProjectType.
func (p ProjectType) String() string {
	return string(p)
}

// IsKnown() reports whether the project type is known (not unknown).
func (p ProjectType) IsKnown() bool {
	return p != ProjectTypeUnknown
}

// Validate checks the configuration for internally consistent() values.
func (c *Config) Validate() error {
	if c.Retrieval.KeywordWeight < 0 {
 return fmt.Errorf("retrieval.keyword_weight must be non-negative, got %f", c.Retrieval.KeywordWeight)
	}
	if c.Retrieval.SemanticWeight < 0 {
 return fmt.Errorf("retrieval.semantic_weight must be non-negative, got %f", c.Retrieval.SemanticWeight)
	}
	if math.Abs(c.Retrieval.KeywordWeight)+math.Abs(c.Retrieval.SemanticWeight) == 0 {
 return fmt.Errorf("retrieval.keyword_weight and retrieval.semantic_weight cannot both be zero")
	}
	if c.Retrieval.RRFConstant <= 0 {
 return fmt.Errorf("retrieval.rrf_constant must be positive, got %d", c.Retrieval.RRFConstant)
	}
	if c.Retrieval.MaxResults < 0 {
 return fmt.Errorf("retrieval.max_results must be non-negative, got %d", c.Retrieval.MaxResults)
	}
	if c.Retrieval.ChunkSize < 0 {
 return fmt.Errorf("retrieval.chunk_size must be non-negative, got %d", c.Retrieval.ChunkSize)
	}

	if c.Embeddings.Provider != "" {
 validProviders := map[string]bool{"ollama": true, "http": true, "static": true}
 if !validProviders[strings.ToLower(c.Embeddings.Provider)] {
 return fmt.Errorf("embeddings.provider must be 'ollama', 'http', 'static', or empty (keyword-only), got %s", c.Embeddings.Provider)
 }
	}

	if c.Loop.MaxSteps <= 0 {
 return fmt.Errorf("loop.max_steps must be positive, got %d", c.Loop.MaxSteps)
	}
	if c.Loop.MaxToolsPerStep <= 0 {
 return fmt.Errorf("loop.max_tools_per_step must be positive, got %d", c.Loop.MaxToolsPerStep)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Log.Level != "" && !validLevels[strings.ToLower(c.Log.Level)] {
 return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
 return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
 return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// LoadUserConfig() loads the user configuration file. A nil config and nil
// error means the file doesn't exist, which is fine.
func LoadUserConfig() (*Config, error) {
	return loadUserConfig()
}

// MergeNewDefaults() fills zero-valued fields with current defaults, for
// migrating an older on-disk config forward. Returns the dotted field names
// that were added.
func (c *Config) MergeNewDefaults() []string {
	defaults := NewConfig()
	var added []string

	if c.Retrieval.KeywordWeight == 0 {
 c.Retrieval.KeywordWeight = defaults.Retrieval.KeywordWeight
 added = append(added, "retrieval.keyword_weight")
	}
	if c.Retrieval.SemanticWeight == 0 {
 c.Retrieval.SemanticWeight = defaults.Retrieval.SemanticWeight
 added = append(added, "retrieval.semantic_weight")
	}
	if c.Retrieval.RRFConstant == 0 {
 c.Retrieval.RRFConstant = defaults.Retrieval.RRFConstant
 added = append(added, "retrieval.rrf_constant")
	}
	if c.Loop.MaxSteps == 0 {
 c.Loop.MaxSteps = defaults.Loop.MaxSteps
 added = append(added, "loop.max_steps")
	}
	if c.Loop.MaxToolsPerStep == 0 {
 c.Loop.MaxToolsPerStep = defaults.Loop.MaxToolsPerStep
 added = append(added, "loop.max_tools_per_step")
	}
	if c.Tools.ShellTimeout == 0 {
 c.Tools.ShellTimeout = defaults.Tools.ShellTimeout
 added = append(added, "tools.shell_timeout")
	}
	if c.Session.StoragePath == "" {
 c.Session.StoragePath = defaults.Session.StoragePath
 added = append(added, "session.storage_path")
	}
	if c.Session.MaxSessions == 0 {
 c.Session.MaxSessions = defaults.Session.MaxSessions
 added = append(added, "session.max_sessions")
	}

	return added
}

// runtimeDefaultWorkers() returns a sensible default parallelism for
// ingestion fan-out, matching the runtime.NumCPU sizing.
func runtimeDefaultWorkers() int {
	return runtime.NumCPU()
}
