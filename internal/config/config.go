// Package config loads the application configuration from YAML, with
// sensible defaults when no config file exists. API keys come from the
// environment, never from the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Transcription struct {
		DefaultModel string `yaml:"default_model"`
		// WhisperCPPModelDir holds ggml model files for the whispercpp
		// provider family.
		WhisperCPPModelDir string `yaml:"whispercpp_model_dir"`
	} `yaml:"transcription"`

	Cleaning struct {
		Enabled bool   `yaml:"enabled"`
		Model   string `yaml:"model"`
		Style   string `yaml:"style"`
	} `yaml:"cleaning"`

	Workers struct {
		Count int `yaml:"count"`
	} `yaml:"workers"`

	Storage struct {
		TempDir   string `yaml:"temp_dir"`
		OutputDir string `yaml:"output_dir"`
		Database  string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`

	Limits struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"limits"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.Host = "0.0.0.0"
	c.Transcription.DefaultModel = "turbo"
	c.Transcription.WhisperCPPModelDir = "models"
	c.Cleaning.Enabled = true
	c.Cleaning.Model = "gemini-2.0-flash"
	c.Cleaning.Style = "presentation"
	c.Workers.Count = 1
	c.Storage.TempDir = "temp"
	c.Storage.OutputDir = "outputs"
	c.Storage.Database = "transcripts.db"
	c.Cleanup.IntervalMinutes = 30
	c.Cleanup.MaxAgeHours = 24
	c.GoogleDrive.FolderName = "Transcripts"
	c.Limits.MaxFileSizeMB = 500
	return &c
}

// Load reads the YAML config at path, applying defaults for anything not
// set. A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config, nil
}
