package fiberswaggerui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializerScript_Default(t *testing.T) {
	script, err := NewViewer(DefaultViewerConfiguration()).InitializerScript()
	require.NoError(t, err)

	assert.Contains(t, script, "window.ui = SwaggerUIBundle({")
	assert.Contains(t, script, `configUrl: "/v3/api-docs/swagger-config",`)
	assert.Contains(t, script, `dom_id: "#swagger-ui",`)
	assert.Contains(t, script, "presets: [SwaggerUIBundle.presets.apis, SwaggerUIStandalonePreset],")
	assert.Contains(t, script, `layout: "StandaloneLayout",`)
	assert.Contains(t, script, "req.credentials = 'include';")
	assert.Contains(t, script, "persistAuthorization: true,")
	assert.Contains(t, script, "validatorUrl: null")
}

func TestInitializerScript_PresetOrder(t *testing.T) {
	cfg, err := NewViewerConfiguration(WithPresets(PresetStandalone, PresetAPIs))
	require.NoError(t, err)

	script, err := NewViewer(cfg).InitializerScript()
	require.NoError(t, err)
	assert.Contains(t, script, "presets: [SwaggerUIStandalonePreset, SwaggerUIBundle.presets.apis],")
}

func TestInitializerScript_ValidatorEnabled(t *testing.T) {
	cfg, err := NewViewerConfiguration(WithValidatorURL("https://validator.swagger.io/validator"), WithPersistAuthorization(false))
	require.NoError(t, err)

	script, err := NewViewer(cfg).InitializerScript()
	require.NoError(t, err)
	assert.Contains(t, script, `validatorUrl: "https://validator.swagger.io/validator"`)
	assert.Contains(t, script, "persistAuthorization: false,")
	assert.NotContains(t, script, "validatorUrl: null")
}

func TestInitializerScript_EscapesMountTarget(t *testing.T) {
	cfg, err := NewViewerConfiguration(WithMountTarget(`#docs"</script>`))
	require.NoError(t, err)

	script, err := NewViewer(cfg).InitializerScript()
	require.NoError(t, err)
	assert.NotContains(t, script, "</script>")
	assert.Contains(t, script, `dom_id: "#docs\"\u003c/script\u003e",`)
}

func TestIndexHTML(t *testing.T) {
	page, err := NewViewer(DefaultViewerConfiguration()).IndexHTML("Online Store API", "")
	require.NoError(t, err)

	assert.Contains(t, page, "<title>Online Store API</title>")
	assert.Contains(t, page, `<div id="swagger-ui"></div>`)
	assert.Contains(t, page, DefaultAssetsURL+"/swagger-ui-bundle.js")
	assert.Contains(t, page, DefaultAssetsURL+"/swagger-ui-standalone-preset.js")
	assert.Contains(t, page, `src="./swagger-initializer.js"`)

	// The bundle has to load before the script that calls it.
	assert.Less(t, strings.Index(page, "swagger-ui-bundle.js"), strings.Index(page, InitializerFile))
}

func TestIndexHTML_CustomAssets(t *testing.T) {
	cfg, err := NewViewerConfiguration(WithMountTarget("#docs"))
	require.NoError(t, err)

	page, err := NewViewer(cfg).IndexHTML("<API>", "/static/swagger-ui/")
	require.NoError(t, err)

	assert.Contains(t, page, `<div id="docs"></div>`)
	assert.Contains(t, page, `href="/static/swagger-ui/swagger-ui.css"`)
	assert.Contains(t, page, "<title>&lt;API&gt;</title>")
}
