/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// The agent command processes Azure DevOps tasks into pull requests, either
// once from the command line or continuously behind an HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/mspranav/azuredevops-swe-agent/azuredevops"
	"github.com/mspranav/azuredevops-swe-agent/codegen"
	"github.com/mspranav/azuredevops-swe-agent/httpapi"
	"github.com/mspranav/azuredevops-swe-agent/langdetect"
	"github.com/mspranav/azuredevops-swe-agent/pipeline"
	"github.com/mspranav/azuredevops-swe-agent/pipeline/implementer"
	"github.com/mspranav/azuredevops-swe-agent/store"
	"github.com/mspranav/azuredevops-swe-agent/testrunner"
	"github.com/mspranav/azuredevops-swe-agent/workspace"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		clog.FromContext(ctx).Errorf("%v", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "agent",
		Short:         "Turn Azure DevOps tasks into pull requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	root.AddCommand(processCommand(&configPath))
	root.AddCommand(serveCommand(&configPath))
	return root
}

func processCommand(configPath *string) *cobra.Command {
	var taskID string
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process one task and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			p, runs, err := buildPipeline(ctx, cfg)
			if err != nil {
				return err
			}
			defer runs.Close()

			result := p.ProcessTask(ctx, taskID)
			if _, err := runs.RecordResult(ctx, result); err != nil {
				clog.FromContext(ctx).Warnf("recording run: %v", err)
			}

			log := clog.FromContext(ctx).With("task", taskID)
			switch result.Status {
			case pipeline.StatusCompleted:
				if result.NoChanges {
					log.Infof("completed with no changes after %s", result.Elapsed)
				} else {
					log.Infof("completed in %s: %s", result.Elapsed, result.Message)
				}
				return nil
			case pipeline.StatusClarification:
				log.Infof("clarification requested:")
				for _, item := range result.Missing {
					log.Infof("  - %s", item)
				}
				return nil
			default:
				return fmt.Errorf("task failed: %s", result.Message)
			}
		},
	}
	cmd.Flags().StringVar(&taskID, "task-id", "", "work item id to process")
	cmd.MarkFlagRequired("task-id")
	return cmd
}

func serveCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx, *configPath)
			if err != nil {
				return err
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("API key is required to serve (AGENT_API_KEY)")
			}
			p, runs, err := buildPipeline(ctx, cfg)
			if err != nil {
				return err
			}
			defer runs.Close()

			srv, err := httpapi.NewServer(p, runs, httpapi.Config{
				Addr:   cfg.ListenAddr,
				APIKey: cfg.APIKey,
			})
			if err != nil {
				return err
			}

			go func() {
				<-ctx.Done()
				clog.FromContext(ctx).Infof("shutting down")
				if err := srv.Shutdown(context.Background()); err != nil {
					clog.FromContext(ctx).Errorf("shutdown: %v", err)
				}
			}()

			clog.FromContext(ctx).Infof("listening on %s", cfg.ListenAddr)
			return srv.Start()
		},
	}
}

// buildPipeline wires the full stack from configuration.
func buildPipeline(ctx context.Context, cfg *Config) (*pipeline.Pipeline, *store.Store, error) {
	gateway, err := azuredevops.New(ctx, cfg.OrganizationURL, cfg.PersonalAccessToken, cfg.Project)
	if err != nil {
		return nil, nil, err
	}
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.PersonalAccessToken})
	workspaces, err := workspace.NewManager(cfg.WorkDir, tokens, cfg.AuthorName, cfg.AuthorEmail)
	if err != nil {
		return nil, nil, err
	}
	generator, err := codegen.New(cfg.Model, cfg.ModelAPIKey)
	if err != nil {
		return nil, nil, err
	}
	applier, err := implementer.New(generator, langdetect.New(), codegen.NewRegistry())
	if err != nil {
		return nil, nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithTargetBranch(cfg.TargetBranch),
		pipeline.WithReviewers(cfg.Reviewers...),
	}
	if cfg.RunTests {
		runner, err := testrunner.NewRunner()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, pipeline.WithTestRunner(runner))
	}

	p, err := pipeline.New(gateway, pipeline.NewWorkspaceManager(workspaces), applier, opts...)
	if err != nil {
		return nil, nil, err
	}
	runs, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return p, runs, nil
}
