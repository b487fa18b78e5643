package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-formschema/internal/config"
)

type scriptDriver struct {
	inputs   []string
	selects  []int
	multi    [][]int
	confirms []bool
	info     []string
	asked    []string
}

func (s *scriptDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *scriptDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	return s.Input(ctx, cfg)
}

func (s *scriptDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	return s.Input(ctx, InputConfig{Message: cfg.Message})
}

func (s *scriptDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.asked = append(s.asked, cfg.Message)
	if len(s.confirms) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[0]
	s.confirms = s.confirms[1:]
	return val, nil
}

func (s *scriptDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.asked = append(s.asked, cfg.Message)
	if len(s.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selects[0]
	s.selects = s.selects[1:]
	return val, nil
}

func (s *scriptDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.asked = append(s.asked, cfg.Message)
	if len(s.multi) == 0 {
		return nil, errors.New("no multi-select scripted")
	}
	val := s.multi[0]
	s.multi = s.multi[1:]
	return val, nil
}

func (s *scriptDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

func testConfig(style string) config.Config {
	return config.Config{
		Forms:  config.FormsConfig{Dir: filepath.Join("testdata", "forms"), Predicates: []string{"betaEnabled"}},
		Locale: "en",
		Log:    config.LogConfig{Level: "error"},
		Output: config.OutputConfig{Style: style},
	}
}

func run(t *testing.T, driver PromptDriver, style string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCommand(
		WithConfig(testConfig(style)),
		WithLogger(zap.NewNop()),
		WithDriver(driver),
		WithOutput(&out, &errOut),
	)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidate_Directory(t *testing.T) {
	t.Parallel()

	out, err := run(t, &scriptDriver{}, config.StylePlain, "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "ok access (4 fields") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestValidate_ReportsAllErrorsAsJSON(t *testing.T) {
	t.Parallel()

	out, err := run(t, &scriptDriver{}, config.StyleJSON, "validate",
		filepath.Join("testdata", "invalid", "colours.yaml"),
		filepath.Join("testdata", "invalid", "sizes.yaml"),
	)
	if !errors.Is(err, errValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	var report validateReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	joined := strings.Join(report.Errors, "\n")
	for _, want := range []string{"requires options", `did you mean "colour"?`} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in errors:\n%s", want, joined)
		}
	}
}

func TestDescribe_Form(t *testing.T) {
	t.Parallel()

	out, err := run(t, &scriptDriver{}, config.StyleJSON, "describe", "access")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	var entries []describeEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	var paths []string
	rules := map[string][]string{}
	for _, entry := range entries {
		paths = append(paths, entry.Path)
		rules[entry.Path] = entry.Rules
	}
	if diff := cmp.Diff([]string{"role", "adminCode", "seats", "beta"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if !contains(rules["adminCode"], "maximum 8 characters") {
		t.Fatalf("unexpected adminCode rules %v", rules["adminCode"])
	}
	if !contains(rules["seats"], "must be at least 1") {
		t.Fatalf("unexpected seats rules %v", rules["seats"])
	}
}

func TestDescribe_OpenAPI(t *testing.T) {
	t.Parallel()

	out, err := run(t, &scriptDriver{}, config.StylePlain, "describe",
		"--openapi", filepath.Join("testdata", "openapi.yaml"), "--component", "Seat")
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	for _, want := range []string{"Seat", "count", "- must be at least 1", "- must be a valid email address"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	if _, err := run(t, &scriptDriver{}, config.StylePlain, "describe", "--openapi", "x.yaml"); err == nil {
		t.Fatalf("expected missing --component to fail")
	}
	if _, err := run(t, &scriptDriver{}, config.StylePlain, "describe", "nope"); err == nil {
		t.Fatalf("expected unknown form to fail")
	}
}

func TestPreview_VisibilityAndResets(t *testing.T) {
	t.Parallel()

	driver := &scriptDriver{
		selects:  []int{0},
		inputs:   []string{"3"},
		confirms: []bool{true},
	}
	out, err := run(t, driver, config.StylePlain, "preview", "access",
		"--set", "role=admin", "--set", "adminCode=old", "--extra", "betaEnabled=true")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	want := map[string]any{"role": "user", "seats": float64(3), "beta": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Role", "Seats", "Join the beta"}, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if !contains(driver.info, "Access request") {
		t.Fatalf("expected title info, got %v", driver.info)
	}
	if !containsSubstring(driver.info, "adminCode was reset because role changed") {
		t.Fatalf("expected reset notice, got %v", driver.info)
	}
}

func TestPreview_HiddenPredicateSkipsPrompt(t *testing.T) {
	t.Parallel()

	driver := &scriptDriver{selects: []int{1}, inputs: []string{"abc", ""}}
	out, err := run(t, driver, config.StylePlain, "preview", "access")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if diff := cmp.Diff(map[string]any{"role": "admin", "adminCode": "abc"}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestPreview_RejectsBadAssignments(t *testing.T) {
	t.Parallel()

	if _, err := run(t, &scriptDriver{}, config.StylePlain, "preview", "access", "--set", "novalue"); err == nil {
		t.Fatalf("expected malformed --set to fail")
	}
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	got, err := parseAssignments([]string{"a=true", "b=1.5", "c=text", "d="})
	if err != nil {
		t.Fatalf("parseAssignments: %v", err)
	}
	want := map[string]any{"a": true, "b": 1.5, "c": "text", "d": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSurveyDriver_Helpers(t *testing.T) {
	t.Parallel()

	options := []string{"User", "Admin", "Owner"}
	if got := indexOf(options, "Admin"); got != 1 {
		t.Fatalf("indexOf = %d, want 1", got)
	}
	if got := indexOf(options, "Guest"); got != -1 {
		t.Fatalf("indexOf unknown = %d, want -1", got)
	}
	if diff := cmp.Diff([]int{0, 2}, indicesOf(options, []string{"Owner", "User"})); diff != "" {
		t.Fatalf("indicesOf mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Admin"}, defaultsFromIndices(options, []int{1, 7, -1})); diff != "" {
		t.Fatalf("defaultsFromIndices mismatch (-want +got):\n%s", diff)
	}
	if validatorOpts(nil) != nil {
		t.Fatalf("expected no ask options without a validator")
	}
	if got := len(validatorOpts(parsesNumber)); got != 1 {
		t.Fatalf("expected one ask option, got %d", got)
	}
	if err := translateSurveyErr(terminal.InterruptErr); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected interrupt to map to ErrAborted, got %v", err)
	}

	var out bytes.Buffer
	driver := NewSurveyDriver(&out)
	if err := driver.Info(context.Background(), "hello"); err != nil || out.String() != "hello\n" {
		t.Fatalf("Info wrote %q, err %v", out.String(), err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.Input(ctx, InputConfig{Message: "never asked"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled context to stop the prompt, got %v", err)
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func containsSubstring(list []string, want string) bool {
	for _, item := range list {
		if strings.Contains(item, want) {
			return true
		}
	}
	return false
}
