package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr   string `yaml:"listen_addr"`
	AuthAPIBase  string `yaml:"auth_api_base"`
	AIFlowBase   string `yaml:"ai_flow_base"`
	AIFlowSecret string `yaml:"ai_flow_secret"`
	StateFile    string `yaml:"state_file"`
}

// LoadConfig resolves configuration in order: built-in defaults, optional
// config.yaml overrides, then environment (.env is loaded first if present).
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:   ":8000",
		AuthAPIBase:  "http://localhost:3001",
		AIFlowBase:   "http://localhost:7777",
		AIFlowSecret: "1234567890",
		StateFile:    "./state/session.json",
	}

	path := getEnv("CONFIG_FILE", "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		// malformed yaml falls back to defaults rather than aborting startup
		_ = yaml.Unmarshal(data, &cfg)
	}

	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.AuthAPIBase = getEnv("AUTH_API_BASE_URL", cfg.AuthAPIBase)
	cfg.AIFlowBase = getEnv("AI_FLOW_BASE_URL", cfg.AIFlowBase)
	cfg.AIFlowSecret = getEnv("AI_FLOW_SECRET", cfg.AIFlowSecret)
	cfg.StateFile = getEnv("SESSION_STATE_FILE", cfg.StateFile)

	return cfg
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
