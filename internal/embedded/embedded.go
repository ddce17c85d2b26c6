package embedded

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed Dockerfile.user.tmpl
var userDockerfile string

//go:embed Dockerfile.base.tmpl
var baseDockerfile string

var (
	userTemplate = template.Must(template.New("Dockerfile.user").Parse(userDockerfile))
	baseTemplate = template.Must(template.New("Dockerfile.base").Parse(baseDockerfile))
)

// DockerfileParams fills the embedded Dockerfile templates.
type DockerfileParams struct {
	BaseImage string
	Username  string
	UID       int
	GID       int
	Shell     string
}

// Dockerfile renders the build file for a bluepill image. When the base image
// already knows the user it is used as-is, otherwise a matching user with
// passwordless sudo is created.
func Dockerfile(params DockerfileParams, userExists bool) ([]byte, error) {
	tmpl := userTemplate
	if userExists {
		tmpl = baseTemplate
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return nil, fmt.Errorf("failed to render Dockerfile: %w", err)
	}

	return buf.Bytes(), nil
}
