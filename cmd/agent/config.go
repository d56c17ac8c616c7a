/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Config controls the agent. Values come from defaults, then an optional
// YAML file, then environment variables, each layer overriding the last.
type Config struct {
	OrganizationURL     string   `yaml:"organization_url" env:"AZDO_ORG_URL, overwrite"`
	Project             string   `yaml:"project" env:"AZDO_PROJECT, overwrite"`
	PersonalAccessToken string   `yaml:"personal_access_token" env:"AZDO_PAT, overwrite"`
	Model               string   `yaml:"model" env:"AGENT_MODEL, overwrite"`
	ModelAPIKey         string   `yaml:"model_api_key" env:"AGENT_MODEL_API_KEY, overwrite"`
	WorkDir             string   `yaml:"work_dir" env:"AGENT_WORK_DIR, overwrite"`
	TargetBranch        string   `yaml:"target_branch" env:"AGENT_TARGET_BRANCH, overwrite"`
	Reviewers           []string `yaml:"reviewers" env:"AGENT_REVIEWERS, overwrite"`
	RunTests            bool     `yaml:"run_tests" env:"AGENT_RUN_TESTS, overwrite"`
	AuthorName          string   `yaml:"author_name" env:"AGENT_AUTHOR_NAME, overwrite"`
	AuthorEmail         string   `yaml:"author_email" env:"AGENT_AUTHOR_EMAIL, overwrite"`
	DatabasePath        string   `yaml:"database_path" env:"AGENT_DB_PATH, overwrite"`
	ListenAddr          string   `yaml:"listen_addr" env:"AGENT_LISTEN_ADDR, overwrite"`
	APIKey              string   `yaml:"api_key" env:"AGENT_API_KEY, overwrite"`
}

func defaultConfig() *Config {
	return &Config{
		Model:        "claude-sonnet-4-20250514",
		WorkDir:      "/tmp/azuredevops-agent",
		TargetBranch: "main",
		RunTests:     true,
		AuthorName:   "Azure DevOps AI Agent",
		AuthorEmail:  "ai-agent@example.com",
		DatabasePath: "/tmp/azuredevops-agent/agent.db",
		ListenAddr:   ":8080",
	}
}

// loadConfig builds the effective configuration. path may be empty.
func loadConfig(ctx context.Context, path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return cfg, nil
}

// validate checks the fields every command needs.
func (c *Config) validate() error {
	if c.OrganizationURL == "" {
		return fmt.Errorf("organization URL is required (AZDO_ORG_URL)")
	}
	if c.Project == "" {
		return fmt.Errorf("project is required (AZDO_PROJECT)")
	}
	if c.PersonalAccessToken == "" {
		return fmt.Errorf("personal access token is required (AZDO_PAT)")
	}
	if c.ModelAPIKey == "" {
		return fmt.Errorf("model API key is required (AGENT_MODEL_API_KEY)")
	}
	return nil
}
