package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, read from config.toml
// beside the executable.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Intake IntakeConfig `toml:"intake"`
	LLM    LLMConfig    `toml:"llm"`
}

type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// IntakeConfig tunes the analysis pipeline and the preview.
type IntakeConfig struct {
	AnalysisRowLimit  int `toml:"analysis_row_limit"`
	SampleRowCount    int `toml:"sample_row_count"`
	WarningCap        int `toml:"warning_cap"`
	MaxQuantity       int `toml:"max_quantity"`
	DefaultPagination int `toml:"default_pagination"`
}

// LLMConfig configures the optional escalation adapter.
type LLMConfig struct {
	Enabled             bool    `toml:"enabled"`
	Endpoint            string  `toml:"endpoint"`
	APIKey              string  `toml:"api_key"`
	Model               string  `toml:"model"`
	EscalationThreshold float64 `toml:"escalation_threshold"`
}

// LoadConfigInfo carries metadata about how the config was loaded.
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20290,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Intake: IntakeConfig{
			AnalysisRowLimit:  200,
			SampleRowCount:    5,
			WarningCap:        50,
			MaxQuantity:       10000,
			DefaultPagination: 25,
		},
		LLM: LLMConfig{
			Enabled:             false,
			Model:               "gemini-2.0-flash",
			EscalationThreshold: 0.75,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo loads config.toml and reports whether the port was
// set explicitly, so a -port flag can defer to the file.
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// Environment overrides, for local runs without a config file edit.
	if v := os.Getenv("DOCKIFY_LLM_API_KEY"); v != "" {
		config.LLM.APIKey = v
	}
	if v := os.Getenv("DOCKIFY_LLM_ENDPOINT"); v != "" {
		config.LLM.Endpoint = v
	}

	return config, info, nil
}

// EnsureDataDir creates the data directory and its subdirectories
// beside the executable.
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath builds a path inside the data directory.
func GetDataPath(config *AppConfig, subdir, filename string) string {
	exeDir, _ := GetExeDir()
	if exeDir == "" {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir, subdir, filename)
}
