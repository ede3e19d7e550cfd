// Binary interpol expands templates using stamp info
// files, binding files, ConfigMaps and explicit variable
// substitutions.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/byte4ever/interpol/semantic"
	"github.com/byte4ever/interpol/source"
	"github.com/byte4ever/interpol/source/github"
	"github.com/byte4ever/interpol/source/gitlab"
	"github.com/byte4ever/interpol/templating"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	if af == nil {
		return ""
	}

	return strings.Join(*af, ",")
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)

	return nil
}

func main() {
	if err := run(); err != nil {
		var synErr *semantic.SyntaxError
		if errors.As(err, &synErr) {
			_, _ = color.New(color.FgRed, color.Bold).Fprintln(
				os.Stderr, synErr.Report(),
			)
		}

		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // CLI flag setup is inherently long
func run() error {
	const errCtx = "running interpol"

	var (
		stampInfoFile  arrayFlags
		variable       arrayFlags
		imports        arrayFlags
		bindingFiles   arrayFlags
		configMaps     arrayFlags
		kubeConfigMaps arrayFlags
		batch          arrayFlags
	)

	flag.Var(
		&stampInfoFile,
		"stamp_info_file",
		"Stamp info file path (repeatable)",
	)

	flag.Var(
		&variable,
		"variable",
		"Variable in NAME=VALUE format (repeatable)",
	)

	flag.Var(
		&imports,
		"imports",
		"Import in NAME=filename format (repeatable)",
	)

	flag.Var(
		&bindingFiles,
		"bindings",
		"JSON, YAML or TOML bindings file, optionally "+
			"file.json#gjson.path (repeatable)",
	)

	flag.Var(
		&configMaps,
		"configmap",
		"ConfigMap manifest whose data become bindings "+
			"(repeatable)",
	)

	flag.Var(
		&kubeConfigMaps,
		"kube_configmap",
		"Live ConfigMap as namespace/name (repeatable)",
	)

	flag.Var(
		&batch,
		"batch",
		"Template in SRC=DST format rendered "+
			"concurrently (repeatable)",
	)

	output := flag.String(
		"output", "",
		"Output file path (stdout if empty)",
	)
	tpl := flag.String(
		"template", "",
		"Input template path (stdin if empty)",
	)
	executable := flag.Bool(
		"executable", false,
		"Set executable bit on output file",
	)
	configPath := flag.String(
		"config", "",
		"YAML file with templating options",
	)
	kubeconfig := flag.String(
		"kubeconfig", "",
		"Path to kubeconfig for -kube_configmap",
	)
	parallelism := flag.Int(
		"parallelism", 4,
		"Number of concurrent -batch renders",
	)
	dumpTokens := flag.String(
		"dump_tokens", "",
		"Print template tokens as table or json "+
			"instead of rendering",
	)
	listVariables := flag.Bool(
		"list_variables", false,
		"Print template variable names instead of "+
			"rendering",
	)

	// Options. Explicit flags override -config.
	startTag := flag.String(
		"start_tag", "{{",
		"Start tag for template placeholders",
	)
	endTag := flag.String(
		"end_tag", "}}",
		"End tag for template placeholders",
	)
	caseSensitive := flag.Bool(
		"case_sensitive", false,
		"Match variable names case-sensitively",
	)
	skipTrimming := flag.Bool(
		"skip_trimming", false,
		"Keep whitespace around variable names",
	)
	ignoreUndefined := flag.Bool(
		"ignore_undefined", false,
		"Render unbound variables as empty strings",
	)

	// Template source selection.
	sourceKind := flag.String(
		"source", "local",
		"Template source: local, github or gitlab",
	)

	// GitHub-specific flags.
	ghRepoOwner := flag.String(
		"github_repo_owner", "",
		"GitHub repository owner",
	)
	ghRepo := flag.String(
		"github_repo", "",
		"GitHub repository name",
	)
	ghRef := flag.String(
		"github_ref", "",
		"GitHub branch, tag or commit",
	)
	ghToken := flag.String(
		"github_access_token", "",
		"GitHub personal access token",
	)
	ghEnterprise := flag.String(
		"github_enterprise_host", "",
		"GitHub Enterprise hostname",
	)

	// GitLab-specific flags.
	glHost := flag.String(
		"gitlab_host", "",
		"GitLab instance URL",
	)
	glRepo := flag.String(
		"gitlab_repo", "",
		"GitLab project path (org/project)",
	)
	glRef := flag.String(
		"gitlab_ref", "",
		"GitLab branch, tag or commit",
	)
	glToken := flag.String(
		"gitlab_access_token", "",
		"GitLab personal access token",
	)

	flag.Parse()

	cfg := templating.Config{}

	if *configPath != "" {
		var err error

		cfg, err = templating.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start_tag":
			cfg.StartTag = *startTag
		case "end_tag":
			cfg.EndTag = *endTag
		case "case_sensitive":
			cfg.CaseSensitive = *caseSensitive
		case "skip_trimming":
			cfg.SkipVariableContentTrimming = *skipTrimming
		case "ignore_undefined":
			cfg.IgnoreUndefinedVariables = *ignoreUndefined
		}
	})

	src, err := newSource(sourceConfig{
		kind: *sourceKind,
		github: github.Config{
			RepoOwner:      *ghRepoOwner,
			Repo:           *ghRepo,
			Ref:            *ghRef,
			AccessToken:    *ghToken,
			EnterpriseHost: *ghEnterprise,
		},
		gitlab: gitlab.Config{
			Host:        *glHost,
			Repo:        *glRepo,
			Ref:         *glRef,
			AccessToken: *glToken,
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	ctx := context.Background()

	en := templating.Engine{
		Config:         cfg,
		StampInfoFiles: stampInfoFile,
		Source:         src,
		Stdout:         os.Stdout,
		Parallelism:    *parallelism,
	}

	if *dumpTokens != "" || *listVariables {
		parsed, err := en.Parse(ctx, *tpl)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if *listVariables {
			for _, name := range parsed.Variables() {
				fmt.Fprintln(os.Stdout, name) //nolint:errcheck // stdout
			}

			return nil
		}

		if err := dumpTemplateTokens(
			os.Stdout, parsed, *dumpTokens,
		); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	}

	layers, err := loadBindings(ctx, bindingSources{
		files:          bindingFiles,
		configMaps:     configMaps,
		kubeConfigMaps: kubeConfigMaps,
		kubeconfig:     *kubeconfig,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	base := templating.Job{
		Variables:  variable,
		Imports:    imports,
		Bindings:   layers,
		Executable: *executable,
	}

	if len(batch) == 0 {
		base.TemplatePath = *tpl
		base.OutputPath = *output

		if err := en.Expand(ctx, base); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	}

	jobs, err := batchJobs(base, batch)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := en.ExpandAll(ctx, jobs); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// sourceConfig groups the template source selection.
type sourceConfig struct {
	kind   string
	github github.Config
	gitlab gitlab.Config
}

// newSource builds the template fetcher for cfg.kind.
func newSource(cfg sourceConfig) (source.Fetcher, error) {
	switch cfg.kind {
	case "", "local":
		return source.Local{}, nil
	case "github":
		return github.NewFetcher(cfg.github)
	case "gitlab":
		return gitlab.NewFetcher(cfg.gitlab)
	default:
		return nil, fmt.Errorf(
			"unsupported source: %s", cfg.kind,
		)
	}
}

// batchJobs expands SRC=DST pairs into jobs sharing the
// bindings of base.
func batchJobs(base templating.Job, pairs []string) ([]templating.Job, error) {
	jobs := make([]templating.Job, 0, len(pairs))

	for _, pair := range pairs {
		src, dst, ok := strings.Cut(pair, "=")
		if !ok || src == "" || dst == "" {
			return nil, fmt.Errorf(
				"batch must be SRC=DST, got %s", pair,
			)
		}

		job := base
		job.TemplatePath = src
		job.OutputPath = dst
		jobs = append(jobs, job)
	}

	return jobs, nil
}
