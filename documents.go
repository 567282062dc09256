package fiberswaggerui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// DefaultGroup is the group name of an ungrouped API document
const DefaultGroup = "default"

// Document is a validated API description ready to be served
type Document struct {
	Name  string
	Spec  *openapi3.T
	JSON  []byte
	YAML  []byte
	Title string
}

// DocumentRegistry keeps API documents in registration order
type DocumentRegistry struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]*Document
}

// NewDocumentRegistry creates an empty registry
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{docs: make(map[string]*Document)}
}

// Register parses data (JSON or YAML), validates it as OpenAPI 3 and stores it under name.
// The remote validator is disabled in the viewer, so documents are checked here instead.
func (r *DocumentRegistry) Register(ctx context.Context, name string, data []byte) (*Document, error) {
	if err := validate.Var(name, "required,max=64,printascii,excludes=/"); err != nil {
		return nil, fmt.Errorf("invalid group name %q: %w", name, describeValidationError(err))
	}

	doc, err := ParseDocument(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", name, err)
	}
	doc.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateGroup, name)
	}
	r.docs[name] = doc
	r.order = append(r.order, name)
	return doc, nil
}

// Get returns the document registered under name
func (r *DocumentRegistry) Get(name string) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, name)
	}
	return doc, nil
}

// First returns the earliest registered document
func (r *DocumentRegistry) First() (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, fmt.Errorf("%w: no documents registered", ErrDocumentNotFound)
	}
	return r.docs[r.order[0]], nil
}

// Names returns the registered group names in registration order
func (r *DocumentRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Groups lists the documents as discovery entries rooted at apiDocsPath.
// The default group is served at apiDocsPath itself.
func (r *DocumentRegistry) Groups(apiDocsPath string) []APIGroup {
	names := r.Names()
	groups := make([]APIGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, APIGroup{URL: GroupURL(apiDocsPath, name), Name: name})
	}
	return groups
}

// GroupURL returns the route of the JSON document for group name
func GroupURL(apiDocsPath, name string) string {
	if name == DefaultGroup {
		return apiDocsPath
	}
	return apiDocsPath + "/" + url.PathEscape(name)
}

// ParseDocument loads and validates an OpenAPI 3 document and prepares its
// JSON and YAML renditions.
func ParseDocument(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	jsonData, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode openapi document: %w", err)
	}
	yamlData, err := jsonToYAML(jsonData)
	if err != nil {
		return nil, err
	}

	doc := &Document{Spec: spec, JSON: jsonData, YAML: yamlData}
	if spec.Info != nil {
		doc.Title = spec.Info.Title
	}
	return doc, nil
}

// jsonToYAML keeps key order by going through a yaml.Node instead of a map
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to convert openapi document to yaml: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return nil, fmt.Errorf("failed to convert openapi document to yaml: %w", err)
	}
	return out, nil
}

// JSON input decodes as flow style with quoted scalars; clear that so the
// encoder picks block style and only quotes where needed.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}
