package testing

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"atkctl/pkg/logging"

	"gopkg.in/yaml.v3"
)

// scenarioLoader reads scenario definitions from YAML files.
type scenarioLoader struct {
	debug bool
}

// NewTestScenarioLoader creates a loader.
func NewTestScenarioLoader(debug bool) TestScenarioLoader {
	return &scenarioLoader{debug: debug}
}

// LoadScenarios reads every *.yaml and *.yml file under configPath. A file
// may hold several scenarios as separate YAML documents.
func (l *scenarioLoader) LoadScenarios(configPath string) ([]TestScenario, error) {
	info, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("scenario path %s: %w", configPath, err)
	}

	var files []string
	if !info.IsDir() {
		files = []string{configPath}
	} else {
		err = filepath.WalkDir(configPath, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if ext := filepath.Ext(p); ext == ".yaml" || ext == ".yml" {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)

	var scenarios []TestScenario
	seen := map[string]string{}
	for _, file := range files {
		loaded, err := loadScenarioFile(file)
		if err != nil {
			return nil, err
		}
		for _, sc := range loaded {
			if prev, dup := seen[sc.Name]; dup {
				return nil, fmt.Errorf("scenario %q defined in both %s and %s", sc.Name, prev, file)
			}
			seen[sc.Name] = file
			scenarios = append(scenarios, sc)
		}
		if l.debug {
			logging.Debug("Runner", "Loaded %d scenario(s) from %s", len(loaded), file)
		}
	}
	return scenarios, nil
}

func loadScenarioFile(file string) ([]TestScenario, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []TestScenario
	dec := yaml.NewDecoder(f)
	for {
		var sc TestScenario
		err := dec.Decode(&sc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		if sc.Name == "" && len(sc.Steps) == 0 {
			continue
		}
		sc.File = file
		if err := ValidateScenario(sc); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		out = append(out, sc)
	}
	return out, nil
}

// ValidateScenario checks a scenario is runnable before any step executes.
func ValidateScenario(sc TestScenario) error {
	if sc.Name == "" {
		return errors.New("scenario has no name")
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	all := append(append([]TestStep(nil), sc.Steps...), sc.Cleanup...)
	for i, step := range all {
		label := step.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		switch step.Kind {
		case StepDrush:
			if strings.TrimSpace(step.Command) == "" {
				return fmt.Errorf("scenario %q step %s: drush step needs a command", sc.Name, label)
			}
		case StepLogin:
			if step.Account == "" && sc.Account == "" {
				return fmt.Errorf("scenario %q step %s: login step needs an account", sc.Name, label)
			}
		case StepVisit:
			if step.Path == "" {
				return fmt.Errorf("scenario %q step %s: visit step needs a path", sc.Name, label)
			}
		case StepExpect:
		default:
			return fmt.Errorf("scenario %q step %s: unknown kind %q", sc.Name, label, step.Kind)
		}
	}
	return nil
}

// FilterScenarios keeps scenarios matching the name pattern and carrying at
// least one of the requested tags.
func (l *scenarioLoader) FilterScenarios(scenarios []TestScenario, config TestConfiguration) []TestScenario {
	var out []TestScenario
	for _, sc := range scenarios {
		if config.Scenario != "" && !matchName(config.Scenario, sc.Name) {
			continue
		}
		if len(config.Tags) > 0 && !hasAnyTag(sc.Tags, config.Tags) {
			continue
		}
		out = append(out, sc)
	}
	return out
}

func matchName(pattern, name string) bool {
	if pattern == name {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
