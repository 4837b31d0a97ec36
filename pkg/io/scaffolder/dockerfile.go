package scaffolder

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/dashdock/dashdock/pkg/apis/dashboard/v1alpha1"
)

// dockerfileTemplate is the build recipe for the dashboard image. Dependency
// installation happens before the application tree is copied so the dependency
// layer caches independently of application edits.
const dockerfileTemplate = `FROM {{ .Base }}

ENV PYTHONDONTWRITEBYTECODE=1 \
    PYTHONUNBUFFERED=1

WORKDIR /app

COPY {{ .Manifest }} .
RUN pip install --no-cache-dir -r {{ .Manifest }}

COPY {{ .AppDir }} .

EXPOSE {{ .Port }}

CMD ["streamlit", "run", "{{ .Entrypoint }}", "--server.port={{ .Port }}", "--server.address=0.0.0.0", "--server.enableCORS={{ .EnableCORS }}"]
`

// dockerfileModel is the template input for RenderDockerfile.
type dockerfileModel struct {
	Base       string
	Manifest   string
	AppDir     string
	Entrypoint string
	Port       int
	EnableCORS bool
}

// RenderDockerfile renders the Dockerfile for the given dashboard configuration.
func RenderDockerfile(cfg *v1alpha1.Dashboard) (string, error) {
	tmpl, err := template.New("dockerfile").Parse(dockerfileTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse dockerfile template: %w", err)
	}

	model := dockerfileModel{
		Base:       cfg.Spec.Image.Base,
		Manifest:   cfg.Spec.Build.Manifest,
		AppDir:     cfg.Spec.Build.AppDir,
		Entrypoint: cfg.Spec.Build.Entrypoint,
		Port:       cfg.Spec.Server.Port,
		EnableCORS: cfg.Spec.Server.EnableCORS,
	}

	var rendered strings.Builder

	err = tmpl.Execute(&rendered, model)
	if err != nil {
		return "", fmt.Errorf("failed to render dockerfile template: %w", err)
	}

	return rendered.String(), nil
}
