package fiberswaggerui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DiscoveryPath is the route the viewer queries first to learn which API documents exist.
// It has to match the route the backend publishes, otherwise no schema loads.
const DiscoveryPath = "/v3/api-docs/swagger-config"

// DefaultMountTarget is the selector of the container the viewer renders into
const DefaultMountTarget = "#swagger-ui"

// Preset names an optional bundle of viewer features
type Preset string

const (
	PresetAPIs       Preset = "apis"
	PresetStandalone Preset = "standalone"
)

// Expression returns the script expression that resolves the preset in the browser
func (p Preset) Expression() string {
	switch p {
	case PresetAPIs:
		return "SwaggerUIBundle.presets.apis"
	case PresetStandalone:
		return "SwaggerUIStandalonePreset"
	}
	return ""
}

// Layout selects the overall page layout of the viewer
type Layout string

const (
	LayoutStandalone Layout = "StandaloneLayout"
	LayoutBase       Layout = "BaseLayout"
)

// Global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateLayoutPresets, viewerSpec{})
}

// viewerSpec holds the validated fields behind a ViewerConfiguration
type viewerSpec struct {
	ConfigURL            string      `validate:"required,eq=/v3/api-docs/swagger-config"`
	DomID                string      `validate:"required,startswith=#"`
	Presets              []Preset    `validate:"required,min=1,unique,dive,oneof=apis standalone"`
	Layout               Layout      `validate:"required,oneof=StandaloneLayout BaseLayout"`
	RequestInterceptor   Interceptor
	PersistAuthorization bool
	ValidatorURL         *string `validate:"omitnil,url"`
}

// The standalone layout is provided by the standalone preset and cannot render without it.
func validateLayoutPresets(sl validator.StructLevel) {
	spec := sl.Current().Interface().(viewerSpec)
	if spec.Layout != LayoutStandalone {
		return
	}
	for _, p := range spec.Presets {
		if p == PresetStandalone {
			return
		}
	}
	sl.ReportError(spec.Presets, "Presets", "Presets", "standalonepreset", "")
}

// ViewerConfiguration is the immutable configuration handed to the viewer factory
type ViewerConfiguration struct {
	spec viewerSpec
}

// ViewerOption customizes a configuration built by NewViewerConfiguration
type ViewerOption func(*viewerSpec)

// WithMountTarget sets the selector of the container element
func WithMountTarget(domID string) ViewerOption {
	return func(s *viewerSpec) { s.DomID = domID }
}

// WithPresets replaces the preset list. Order is kept as given.
func WithPresets(presets ...Preset) ViewerOption {
	return func(s *viewerSpec) { s.Presets = append([]Preset(nil), presets...) }
}

// WithLayout sets the layout mode
func WithLayout(layout Layout) ViewerOption {
	return func(s *viewerSpec) { s.Layout = layout }
}

// WithRequestInterceptor replaces the request-mutation hook
func WithRequestInterceptor(interceptor Interceptor) ViewerOption {
	return func(s *viewerSpec) { s.RequestInterceptor = interceptor }
}

// WithPersistAuthorization toggles keeping entered credentials across reloads
func WithPersistAuthorization(persist bool) ViewerOption {
	return func(s *viewerSpec) { s.PersistAuthorization = persist }
}

// WithValidatorURL enables remote schema validation against url
func WithValidatorURL(url string) ViewerOption {
	return func(s *viewerSpec) { s.ValidatorURL = &url }
}

// WithoutValidator disables remote schema validation
func WithoutValidator() ViewerOption {
	return func(s *viewerSpec) { s.ValidatorURL = nil }
}

func defaultSpec() viewerSpec {
	return viewerSpec{
		ConfigURL:            DiscoveryPath,
		DomID:                DefaultMountTarget,
		Presets:              []Preset{PresetAPIs, PresetStandalone},
		Layout:               LayoutStandalone,
		RequestInterceptor:   IncludeCredentialsInterceptor(),
		PersistAuthorization: true,
		ValidatorURL:         nil,
	}
}

// DefaultViewerConfiguration returns the stock configuration: discovery via
// springdoc, standalone layout, credentials on every request, persisted
// authorization and no outbound validator calls.
func DefaultViewerConfiguration() ViewerConfiguration {
	return ViewerConfiguration{spec: defaultSpec()}
}

// NewViewerConfiguration applies opts on top of the defaults and validates the result
func NewViewerConfiguration(opts ...ViewerOption) (ViewerConfiguration, error) {
	spec := defaultSpec()
	for _, opt := range opts {
		opt(&spec)
	}
	return newFromSpec(spec)
}

func newFromSpec(spec viewerSpec) (ViewerConfiguration, error) {
	if err := validate.Struct(spec); err != nil {
		return ViewerConfiguration{}, describeValidationError(err)
	}
	spec.Presets = append([]Preset(nil), spec.Presets...)
	if spec.ValidatorURL != nil {
		url := *spec.ValidatorURL
		spec.ValidatorURL = &url
	}
	return ViewerConfiguration{spec: spec}, nil
}

func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("field '%s' failed '%s=%s'", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(parts, "; "))
}

// ConfigURL returns the discovery endpoint path
func (c ViewerConfiguration) ConfigURL() string { return c.spec.ConfigURL }

// DomID returns the mount target selector
func (c ViewerConfiguration) DomID() string { return c.spec.DomID }

// Presets returns a copy of the ordered preset list
func (c ViewerConfiguration) Presets() []Preset {
	return append([]Preset(nil), c.spec.Presets...)
}

// Layout returns the layout mode
func (c ViewerConfiguration) Layout() Layout { return c.spec.Layout }

// RequestInterceptor returns the request-mutation hook
func (c ViewerConfiguration) RequestInterceptor() Interceptor { return c.spec.RequestInterceptor }

// PersistAuthorization reports whether entered credentials survive a reload
func (c ViewerConfiguration) PersistAuthorization() bool { return c.spec.PersistAuthorization }

// ValidatorURL returns the remote validator endpoint, nil when validation is disabled
func (c ViewerConfiguration) ValidatorURL() *string {
	if c.spec.ValidatorURL == nil {
		return nil
	}
	url := *c.spec.ValidatorURL
	return &url
}

// viewerFile is the on-disk form. Every key is required.
type viewerFile struct {
	ConfigURL            *string   `yaml:"configUrl"`
	DomID                *string   `yaml:"domId"`
	Presets              *[]Preset `yaml:"presets"`
	Layout               *Layout   `yaml:"layout"`
	RequestInterceptor   *string   `yaml:"requestInterceptor"`
	PersistAuthorization *bool     `yaml:"persistAuthorization"`
	// Kept as a node so an explicit null can be told apart from a missing key.
	ValidatorURL yaml.Node `yaml:"validatorUrl"`
}

// LoadViewerConfiguration reads a YAML or JSON configuration. Unknown keys and
// missing keys are both rejected.
func LoadViewerConfiguration(r io.Reader) (ViewerConfiguration, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file viewerFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return ViewerConfiguration{}, fmt.Errorf("%w: empty document", ErrMissingField)
		}
		return ViewerConfiguration{}, fmt.Errorf("failed to decode viewer configuration: %w", err)
	}

	var missing []string
	if file.ConfigURL == nil {
		missing = append(missing, "configUrl")
	}
	if file.DomID == nil {
		missing = append(missing, "domId")
	}
	if file.Presets == nil {
		missing = append(missing, "presets")
	}
	if file.Layout == nil {
		missing = append(missing, "layout")
	}
	if file.RequestInterceptor == nil {
		missing = append(missing, "requestInterceptor")
	}
	if file.PersistAuthorization == nil {
		missing = append(missing, "persistAuthorization")
	}
	if file.ValidatorURL.Kind == 0 {
		missing = append(missing, "validatorUrl")
	}
	if len(missing) > 0 {
		return ViewerConfiguration{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	interceptor, err := LookupInterceptor(*file.RequestInterceptor)
	if err != nil {
		return ViewerConfiguration{}, err
	}

	var validatorURL *string
	if file.ValidatorURL.ShortTag() != "!!null" {
		var url string
		if err := file.ValidatorURL.Decode(&url); err != nil {
			return ViewerConfiguration{}, fmt.Errorf("invalid validatorUrl: %w", err)
		}
		validatorURL = &url
	}

	return newFromSpec(viewerSpec{
		ConfigURL:            *file.ConfigURL,
		DomID:                *file.DomID,
		Presets:              *file.Presets,
		Layout:               *file.Layout,
		RequestInterceptor:   interceptor,
		PersistAuthorization: *file.PersistAuthorization,
		ValidatorURL:         validatorURL,
	})
}
