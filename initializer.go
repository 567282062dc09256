package fiberswaggerui

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
)

// DefaultAssetsURL is where the viewer bundle is loaded from when no other source is configured
const DefaultAssetsURL = "https://unpkg.com/swagger-ui-dist@5"

// InitializerFile is the name under which the bootstrap script is served
const InitializerFile = "swagger-initializer.js"

var initializerTemplate = template.Must(template.New("initializer").Funcs(template.FuncMap{
	"json": toJSON,
}).Parse(`window.onload = function () {
  window.ui = SwaggerUIBundle({
    configUrl: {{ json .ConfigURL }},
    dom_id: {{ json .DomID }},
    presets: [{{ .Presets }}],
    layout: {{ json .Layout }},
    requestInterceptor: {{ .Interceptor }},
    persistAuthorization: {{ .PersistAuthorization }},
    validatorUrl: {{ .ValidatorURL }}
  });
};
`))

var indexTemplate = htmltemplate.Must(htmltemplate.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="{{ .AssetsURL }}/swagger-ui.css" />
</head>
<body>
  <div id="{{ .MountID }}"></div>
  <script src="{{ .AssetsURL }}/swagger-ui-bundle.js" charset="UTF-8"></script>
  <script src="{{ .AssetsURL }}/swagger-ui-standalone-preset.js" charset="UTF-8"></script>
  <script src="{{ .InitializerURL }}" charset="UTF-8"></script>
</body>
</html>
`))

func toJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// InitializerScript renders the script that constructs the viewer in the browser
func (v *Viewer) InitializerScript() (string, error) {
	cfg := v.config

	presets := make([]string, 0, len(cfg.spec.Presets))
	for _, p := range cfg.spec.Presets {
		presets = append(presets, p.Expression())
	}

	validatorURL := "null"
	if cfg.spec.ValidatorURL != nil {
		encoded, err := toJSON(*cfg.spec.ValidatorURL)
		if err != nil {
			return "", err
		}
		validatorURL = encoded
	}

	var buf bytes.Buffer
	err := initializerTemplate.Execute(&buf, map[string]interface{}{
		"ConfigURL":            cfg.spec.ConfigURL,
		"DomID":                cfg.spec.DomID,
		"Presets":              strings.Join(presets, ", "),
		"Layout":               cfg.spec.Layout,
		"Interceptor":          cfg.spec.RequestInterceptor.Script,
		"PersistAuthorization": cfg.spec.PersistAuthorization,
		"ValidatorURL":         validatorURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", InitializerFile, err)
	}
	return buf.String(), nil
}

// IndexHTML renders the host page. It contains the mount element the
// initializer script renders into.
func (v *Viewer) IndexHTML(title, assetsURL string) (string, error) {
	if assetsURL == "" {
		assetsURL = DefaultAssetsURL
	}

	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, map[string]interface{}{
		"Title":          title,
		"AssetsURL":      strings.TrimSuffix(assetsURL, "/"),
		"MountID":        strings.TrimPrefix(v.config.spec.DomID, "#"),
		"InitializerURL": "./" + InitializerFile,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render viewer page: %w", err)
	}
	return buf.String(), nil
}
