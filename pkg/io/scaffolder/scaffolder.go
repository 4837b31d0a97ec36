// Package scaffolder generates dashdock project files: the typed configuration,
// the Dockerfile build recipe, and a seed dependency manifest.
package scaffolder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dashdock/dashdock/pkg/apis/dashboard/v1alpha1"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"sigs.k8s.io/yaml"
)

const (
	// ConfigFile is the generated configuration file name.
	ConfigFile = "dashdock.yaml"

	dirPerm  = 0o750
	filePerm = 0o600
)

// corsNotice flags the permissive CORS posture in the generated config so it
// is reviewed rather than silently inherited.
const corsNotice = `# The dashboard server ships with CORS protection disabled
# (spec.server.enableCORS: false). Review before exposing beyond localhost.
`

// defaultRequirements seeds the dependency manifest with the dashboard stack.
// Entries are pinned; unpinned entries would let versions float between builds.
var defaultRequirements = []string{
	"streamlit==1.37.0",
	"pandas==2.2.2",
	"duckdb==1.0.0",
	"plotly==5.22.0",
	"numpy==1.26.4",
	"openpyxl==3.1.5",
}

// Scaffolder generates dashdock project files.
type Scaffolder struct {
	Config *v1alpha1.Dashboard
	Writer io.Writer
}

// NewScaffolder creates a Scaffolder for the given configuration.
func NewScaffolder(cfg *v1alpha1.Dashboard, writer io.Writer) *Scaffolder {
	return &Scaffolder{
		Config: cfg,
		Writer: writer,
	}
}

// Scaffold generates the project files in the output directory.
// Existing files are skipped unless force is set.
func (s *Scaffolder) Scaffold(output string, force bool) error {
	err := os.MkdirAll(output, dirPerm)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	err = s.generateConfig(output, force)
	if err != nil {
		return err
	}

	err = s.generateDockerfile(output, force)
	if err != nil {
		return err
	}

	return s.generateRequirements(output, force)
}

// generateConfig writes dashdock.yaml.
func (s *Scaffolder) generateConfig(output string, force bool) error {
	content, err := yaml.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal dashdock config: %w", err)
	}

	return s.writeFile(filepath.Join(output, ConfigFile), append([]byte(corsNotice), content...), force)
}

// generateDockerfile writes the build recipe.
func (s *Scaffolder) generateDockerfile(output string, force bool) error {
	content, err := RenderDockerfile(s.Config)
	if err != nil {
		return err
	}

	return s.writeFile(filepath.Join(output, s.Config.Spec.Build.Dockerfile), []byte(content), force)
}

// generateRequirements writes the seed dependency manifest.
func (s *Scaffolder) generateRequirements(output string, force bool) error {
	var content []byte
	for _, entry := range defaultRequirements {
		content = append(content, entry...)
		content = append(content, '\n')
	}

	return s.writeFile(filepath.Join(output, s.Config.Spec.Build.Manifest), content, force)
}

// writeFile writes a generated file, skipping existing files unless force is set.
func (s *Scaffolder) writeFile(path string, content []byte, force bool) error {
	_, err := os.Stat(path)
	exists := err == nil

	if exists && !force {
		notify.Activityf(s.Writer, "skipping '%s' as it already exists, use --force to overwrite", path)

		return nil
	}

	if exists {
		notify.Activityf(s.Writer, "overwriting '%s'", path)
	} else {
		notify.Generatef(s.Writer, "generating '%s'", path)
	}

	err = os.WriteFile(path, content, filePerm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
