package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 1.0, cfg.Retrieval.KeywordWeight)
	assert.Equal(t, 1.0, cfg.Retrieval.SemanticWeight)
	assert.Equal(t, 60, cfg.Retrieval.RRFConstant) // industry-standard k=60
	assert.Equal(t, 1500, cfg.Retrieval.ChunkSize)
	assert.Equal(t, 200, cfg.Retrieval.ChunkOverlap)
	assert.Equal(t, 20, cfg.Retrieval.MaxResults)

	assert.Equal(t, "", cfg.Embeddings.Provider) // empty triggers keyword-only retrieval
	assert.Equal(t, 0, cfg.Embeddings.Dimensions)
	assert.Equal(t, 32, cfg.Embeddings.BatchSize)

	assert.Equal(t, "workspace", cfg.Sandbox.WorkspaceRoot)
	assert.Contains(t, cfg.Sandbox.BlockedDirs, "patches")

	assert.Contains(t, cfg.Paths.Exclude, "**/node_modules/**")
	assert.Contains(t, cfg.Paths.Exclude, "**/.git/**")
	assert.Contains(t, cfg.Paths.Exclude, "**/vendor/**")

	assert.Equal(t, 25, cfg.Loop.MaxSteps)
	assert.Equal(t, 8, cfg.Loop.MaxToolsPerStep)

	assert.NotEmpty(t, cfg.Session.StoragePath)
	assert.Contains(t, cfg.Session.StoragePath, "sessions")
	assert.True(t, cfg.Session.AutoSave)
	assert.Equal(t, 20, cfg.Session.MaxSessions)

	assert.Equal(t, "info", cfg.Log.Level)
}

func TestConfig_VersionDefaultsToOne(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 1, cfg.Version)
}

// =============================================================================
// Configuration File Loading Tests
// =============================================================================

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 1.0, cfg.Retrieval.KeywordWeight)
	assert.Equal(t, tmpDir, cfg.Sandbox.ProjectRoot)
	assert.Equal(t, filepath.Join(tmpDir, "workspace"), cfg.Sandbox.WorkspaceRoot)
}

func TestLoad_YamlFile_OverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
retrieval:
 keyword_weight: 0.4
 semantic_weight: 0.6
 rrf_constant: 100
 chunk_size: 2000
 max_results: 50
`
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Retrieval.KeywordWeight)
	assert.Equal(t, 0.6, cfg.Retrieval.SemanticWeight)
	assert.Equal(t, 100, cfg.Retrieval.RRFConstant)
	assert.Equal(t, 2000, cfg.Retrieval.ChunkSize)
	assert.Equal(t, 50, cfg.Retrieval.MaxResults)
}

func TestLoad_YmlExtension_IsRecognized(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
embeddings:
 provider: static
`
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yml"), []byte(configContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "static", cfg.Embeddings.Provider)
}

func TestLoad_YamlPreferredOverYml(t *testing.T) {
	tmpDir := t.TempDir()
	yamlContent := `
version: 1
embeddings:
 provider: ollama
`
	ymlContent := `
version: 1
embeddings:
 provider: static
`
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yaml"), []byte(yamlContent), 0o644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(tmpDir, ".agentcore.yml"), []byte(ymlContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
}

func TestLoad_InvalidYaml_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	invalidContent := `
version: 1
retrieval:
 keyword_weight: [invalid yaml syntax
`
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yaml"), []byte(invalidContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoad_InvalidFieldType_ReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	invalidContent := `
version: 1
retrieval:
 chunk_size: "not-a-number"
`
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yaml"), []byte(invalidContent), 0o644)
	require.NoError(t, err)

	cfg, err := Load(tmpDir)

	require.Error(t, err)
	assert.Nil(t, cfg)
}

// =============================================================================
// Project Type Detection Tests
// =============================================================================

func TestDetectProjectType_GoMod_ReturnsGo(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("module test"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypeGo, DetectProjectType(tmpDir))
}

func TestDetectProjectType_PackageJson_ReturnsNode(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{}"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypeNode, DetectProjectType(tmpDir))
}

func TestDetectProjectType_PyprojectToml_ReturnsPython(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "pyproject.toml"), []byte("[project]"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypePython, DetectProjectType(tmpDir))
}

func TestDetectProjectType_RequirementsTxt_ReturnsPython(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "requirements.txt"), []byte("requests==2.0"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypePython, DetectProjectType(tmpDir))
}

func TestDetectProjectType_NoMarkerFiles_ReturnsUnknown(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "random.txt"), []byte("hello()"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypeUnknown, DetectProjectType(tmpDir))
}

func TestDetectProjectType_Priority_GoOverNode(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "go.mod"), []byte("module test"), 0o644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{}"), 0o644)
	require.NoError(t, err)

	assert.Equal(t, ProjectTypeGo, DetectProjectType(tmpDir))
}

// =============================================================================
// Directory Auto-Detection Tests
// =============================================================================

func TestFindProjectRoot_GitDirectory_ReturnsGitRoot(t *testing.T) {
	tmpDir := t.TempDir()
	gitDir := filepath.Join(tmpDir, ".git")
	nestedDir := filepath.Join(tmpDir, "src", "internal")
	require.NoError(t, os.Mkdir(gitDir, 0o755))
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	root, err := FindProjectRoot(nestedDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_ConfigFile_ReturnsConfigLocation(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "src", "internal")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yaml"), []byte("version: 1"), 0o644)
	require.NoError(t, err)

	root, err := FindProjectRoot(nestedDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestFindProjectRoot_NoMarkers_ReturnsCurrentDir(t *testing.T) {
	tmpDir := t.TempDir()

	root, err := FindProjectRoot(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, tmpDir, root)
}

func TestDiscoverSourceDirs_FindsCommonDirs(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "src"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "lib"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "internal"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "cmd"), 0o755))

	dirs := DiscoverSourceDirs(tmpDir)

	assert.Contains(t, dirs, "src")
	assert.Contains(t, dirs, "lib")
	assert.Contains(t, dirs, "internal")
	assert.Contains(t, dirs, "cmd")
}

func TestDiscoverDocsDirs_FindsDocDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "docs"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "doc"), 0o755))
	err := os.WriteFile(filepath.Join(tmpDir, "README.md"), []byte("# Title"), 0o644)
	require.NoError(t, err)

	dirs := DiscoverDocsDirs(tmpDir)

	assert.Contains(t, dirs, "docs")
	assert.Contains(t, dirs, "doc")
	assert.Contains(t, dirs, "README.md")
}

func TestDiscoverSourceDirs_NextJS_FindsAppAndPages(t *testing.T) {
	tmpDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte(`{"dependencies":{"next":"*"}}`), 0o644)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "app"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "pages"), 0o755))

	dirs := DiscoverSourceDirs(tmpDir)

	assert.Contains(t, dirs, "app")
	assert.Contains(t, dirs, "pages")
}

// =============================================================================
// Environment Variable Override Tests
// =============================================================================

func TestLoad_EnvVarOverridesProvider(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
embeddings:
 provider: ollama
`
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)
	t.Setenv("AGENTCORE_EMBEDDINGS_PROVIDER", "static")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "static", cfg.Embeddings.Provider)
}

func TestLoad_EnvVarOverridesModel(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("AGENTCORE_EMBEDDINGS_MODEL", "all-minilm")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "all-minilm", cfg.Embeddings.Model)
}

func TestLoad_EnvVarOverridesLogLevel(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("AGENTCORE_LOG_LEVEL", "debug")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvVarOverridesMaxSteps(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("AGENTCORE_MAX_STEPS", "50")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Loop.MaxSteps)
}

func TestLoad_EnvVarOverridesRRFConstant(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
retrieval:
 rrf_constant: 100
`
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)
	t.Setenv("AGENTCORE_RRF_CONSTANT", "80")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Retrieval.RRFConstant)
}

func TestLoad_EnvVarOverridesRetrievalWeights(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
version: 1
retrieval:
 keyword_weight: 0.4
 semantic_weight: 0.6
`
	err := os.WriteFile(filepath.Join(tmpDir, ".agentcore.yaml"), []byte(configContent), 0o644)
	require.NoError(t, err)
	t.Setenv("AGENTCORE_KEYWORD_WEIGHT", "0.5")
	t.Setenv("AGENTCORE_SEMANTIC_WEIGHT", "0.5")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Retrieval.KeywordWeight)
	assert.Equal(t, 0.5, cfg.Retrieval.SemanticWeight)
}

func TestLoad_EnvVarEmptyString_DoesNotOverride(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("AGENTCORE_EMBEDDINGS_PROVIDER", "")

	cfg, err := Load(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "", cfg.Embeddings.Provider) // empty = keyword-only retrieval
}

// =============================================================================
// User/Global Configuration Tests
// =============================================================================

func TestGetUserConfigPath_DefaultsToXDGLocation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	path := GetUserConfigPath()

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	expected := filepath.Join(home, ".config", "agentcore", "config.yaml")
	assert.Equal(t, expected, path)
}

func TestGetUserConfigPath_RespectsXDGConfigHome(t *testing.T) {
	customConfig := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", customConfig)

	path := GetUserConfigPath()

	expected := filepath.Join(customConfig, "agentcore", "config.yaml")
	assert.Equal(t, expected, path)
}

func TestGetUserConfigDir_ReturnsParentOfConfigPath(t *testing.T) {
	dir := GetUserConfigDir()
	path := GetUserConfigPath()

	assert.Equal(t, filepath.Dir(path), dir)
}

func TestUserConfigExists_ReturnsFalseWhenMissing(t *testing.T) {
	emptyDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", emptyDir)

	assert.False(t, UserConfigExists())
}

func TestUserConfigExists_ReturnsTrueWhenPresent(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	agentcoreDir := filepath.Join(configDir, "agentcore")
	require.NoError(t, os.MkdirAll(agentcoreDir, 0o755))
	configPath := filepath.Join(agentcoreDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 1"), 0o644))

	assert.True(t, UserConfigExists())
}

func TestLoad_UserConfigOverridesDefaults(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	agentcoreDir := filepath.Join(configDir, "agentcore")
	require.NoError(t, os.MkdirAll(agentcoreDir, 0o755))
	userConfig := `
version: 1
embeddings:
 ollama_host: http://custom-host:11434
`
	require.NoError(t, os.WriteFile(filepath.Join(agentcoreDir, "config.yaml"), []byte(userConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, "http://custom-host:11434", cfg.Embeddings.OllamaHost)
}

func TestLoad_ProjectConfigOverridesUserConfig(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	agentcoreDir := filepath.Join(configDir, "agentcore")
	require.NoError(t, os.MkdirAll(agentcoreDir, 0o755))
	userConfig := `
version: 1
embeddings:
 provider: ollama
 model: user-model
`
	require.NoError(t, os.WriteFile(filepath.Join(agentcoreDir, "config.yaml"), []byte(userConfig), 0o644))

	projectConfig := `
version: 1
embeddings:
 model: project-model
`
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".agentcore.yaml"), []byte(projectConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, "project-model", cfg.Embeddings.Model)
	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
}

func TestLoad_EnvVarOverridesUserAndProjectConfig(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("AGENTCORE_EMBEDDINGS_MODEL", "env-model")

	agentcoreDir := filepath.Join(configDir, "agentcore")
	require.NoError(t, os.MkdirAll(agentcoreDir, 0o755))
	userConfig := `
version: 1
embeddings:
 model: user-model
`
	require.NoError(t, os.WriteFile(filepath.Join(agentcoreDir, "config.yaml"), []byte(userConfig), 0o644))

	projectConfig := `
version: 1
embeddings:
 model: project-model
`
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".agentcore.yaml"), []byte(projectConfig), 0o644))

	cfg, err := Load(projectDir)

	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Embeddings.Model)
}

func TestLoad_InvalidUserConfig_ReturnsError(t *testing.T) {
	configDir := t.TempDir()
	projectDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)

	agentcoreDir := filepath.Join(configDir, "agentcore")
	require.NoError(t, os.MkdirAll(agentcoreDir, 0o755))
	invalidConfig := `
version: 1
embeddings:
 model: [invalid yaml
`
	require.NoError(t, os.WriteFile(filepath.Join(agentcoreDir, "config.yaml"), []byte(invalidConfig), 0o644))

	cfg, err := Load(projectDir)

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "user config")
}
