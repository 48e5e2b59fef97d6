package core

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "showcase.config.yml"

type Config struct {
	OutputDir    string `yaml:"outputDir"`
	CacheEnabled bool   `yaml:"cache"`
	DebugHeaders bool   `yaml:"debugHeaders"`
	DebugLogs    bool   `yaml:"debugLogs"`

	// TemplatesDir overrides the embedded views when set.
	TemplatesDir string `yaml:"templatesDir"`
	PublicDir    string `yaml:"publicDir"`

	SSL      bool   `yaml:"ssl"`
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
}

func defaultConfig() Config {
	return Config{
		OutputDir: "./cache",
		PublicDir: "public",
	}
}

var LoadConfig = func(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultConfig()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("config: ignoring %s: %v", path, err)
		return defaultConfig()
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./cache"
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = "public"
	}

	return cfg
}
