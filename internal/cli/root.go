// Package cli implements the formschema command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formschema/internal/config"
	"github.com/goliatone/go-formschema/internal/logging"
	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/loader"
)

// Option configures the root command.
type Option func(*app)

// WithDriver replaces the interactive prompt driver.
func WithDriver(driver PromptDriver) Option {
	return func(a *app) { a.driver = driver }
}

// WithOutput redirects command output and errors.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *app) {
		a.out = out
		a.errOut = errOut
	}
}

// WithConfig skips config file loading and uses cfg.
func WithConfig(cfg config.Config) Option {
	return func(a *app) { a.preset = &cfg }
}

// WithLogger skips logger construction.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) { a.logger = logger }
}

type app struct {
	out    io.Writer
	errOut io.Writer
	driver PromptDriver
	logger *zap.Logger
	preset *config.Config
	cfg    config.Config
	styles styles

	configPath string
	dir        string
	style      string
	logLevel   string
	locale     string
	predicates []string
}

// NewRootCommand builds the formschema command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "formschema",
		Short: "Validate, describe and preview declarative form schemas",
		Long: `formschema loads YAML or JSON form documents, checks that they build into
valid schemas, prints the constraint text of every field and walks a form
interactively with live conditional visibility.

Examples:
  formschema validate --dir ./forms
  formschema describe account
  formschema describe --openapi api.yaml --component Account
  formschema preview account --extra beta=true`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./formschema.yaml or $FORMSCHEMA_CONFIG)")
	flags.StringVar(&a.dir, "dir", "", "directory of form documents")
	flags.StringVar(&a.style, "style", "", "output style: color, plain or json")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.locale, "locale", "", "locale for rule descriptions")
	flags.StringSliceVar(&a.predicates, "predicate", nil, "named predicate backed by an extras flag (repeatable)")

	root.AddCommand(a.validateCommand(), a.describeCommand(), a.previewCommand())
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, opts ...Option) int {
	root := NewRootCommand(opts...)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.preset != nil {
		a.cfg = *a.preset
	} else {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	if a.dir != "" {
		a.cfg.Forms.Dir = a.dir
	}
	if a.style != "" {
		a.cfg.Output.Style = strings.ToLower(a.style)
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.locale != "" {
		a.cfg.Locale = a.locale
	}
	a.cfg.Forms.Predicates = append(a.cfg.Forms.Predicates, a.predicates...)

	switch a.cfg.Output.Style {
	case config.StyleColor, config.StylePlain, config.StyleJSON:
	case "":
		a.cfg.Output.Style = config.StylePlain
	default:
		return fmt.Errorf("unknown output style %q", a.cfg.Output.Style)
	}
	a.styles = newStyles(a.cfg.Output.Style == config.StyleColor)

	if a.logger == nil {
		logger, err := logging.NewLogger(logging.Config{Level: a.cfg.Log.Level, Encoding: a.cfg.Log.Encoding})
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		a.logger = logger
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, a.logger))

	if a.driver == nil {
		a.driver = NewSurveyDriver(a.out)
	}
	return nil
}

func (a *app) loader() *loader.Loader {
	opts := []loader.Option{loader.WithLogger(a.logger)}
	for _, name := range a.cfg.Forms.Predicates {
		opts = append(opts, loader.WithPredicate(name, extrasFlag(name)))
	}
	return loader.New(opts...)
}

// loadForms loads the explicit files, or every document under the forms
// directory when none are given.
func (a *app) loadForms(files []string) (*loader.Registry, error) {
	l := a.loader()
	if len(files) > 0 {
		return l.LoadFiles(files...)
	}
	dir := a.cfg.Forms.Dir
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("forms directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("forms directory: %s is not a directory", dir)
	}
	return l.LoadFS(os.DirFS(dir))
}

func (a *app) jsonOutput() bool {
	return a.cfg.Output.Style == config.StyleJSON
}

// extrasFlag backs a named predicate with the truthiness of extras.<name>.
func extrasFlag(name string) condition.PredicateFunc {
	return func(values condition.Values) (bool, error) {
		extras, _ := values["extras"].(map[string]any)
		raw, ok := extras[name]
		if !ok {
			return false, nil
		}
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return false, fmt.Errorf("extras.%s: %w", name, err)
			}
			return b, nil
		default:
			return false, errors.New("extras." + name + " is not a boolean")
		}
	}
}

// parseAssignments reads repeated key=value flags. Values that parse as
// booleans or numbers keep that type.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", pair)
		}
		out[key] = scalar(strings.TrimSpace(raw))
	}
	return out, nil
}

func scalar(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}
