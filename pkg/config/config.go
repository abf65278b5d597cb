package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Composer ComposerConfig `mapstructure:"composer"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LLMConfig points at any OpenAI-compatible chat-completion endpoint.
// ClassifierModel handles the cheap strict-JSON calls (keyword extraction,
// document classification); Model handles answer generation.
type LLMConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	Model           string `mapstructure:"model"`
	ClassifierModel string `mapstructure:"classifier_model"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type ComposerConfig struct {
	MaxSections     int `mapstructure:"max_sections"`
	MaxPromptTokens int `mapstructure:"max_prompt_tokens"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.3-70b-versatile")
	v.SetDefault("llm.classifier_model", "llama-3.3-70b-versatile")
	v.SetDefault("upload.max_bytes", 1<<20)
	v.SetDefault("composer.max_sections", 15)
	v.SetDefault("composer.max_prompt_tokens", 6000)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Environment overrides for deployment
	if apiKey := v.GetString("LLM_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := v.GetString("LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if addr := v.GetString("SERVER_ADDR"); addr != "" {
		config.Server.Addr = addr
	}

	return &config, nil
}
