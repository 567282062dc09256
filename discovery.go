package fiberswaggerui

// APIGroup is one API description document advertised by the discovery endpoint
type APIGroup struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// SwaggerConfig is the discovery document served at DiscoveryPath.
// Its shape follows springdoc's swagger-config response.
type SwaggerConfig struct {
	ConfigURL            string     `json:"configUrl"`
	URL                  string     `json:"url,omitempty"`
	URLs                 []APIGroup `json:"urls,omitempty"`
	PrimaryName          string     `json:"urls.primaryName,omitempty"`
	DomID                string     `json:"domId,omitempty"`
	Layout               Layout     `json:"layout,omitempty"`
	PersistAuthorization bool       `json:"persistAuthorization"`
	ValidatorURL         *string    `json:"validatorUrl"`
	OAuth2RedirectURL    string     `json:"oauth2RedirectUrl,omitempty"`
}

// Groups returns the advertised documents whether they came as a single url or a list
func (s SwaggerConfig) Groups() []APIGroup {
	if len(s.URLs) > 0 {
		return s.URLs
	}
	if s.URL != "" {
		return []APIGroup{{URL: s.URL, Name: DefaultGroup}}
	}
	return nil
}

// BuildSwaggerConfig assembles the discovery document for config and groups.
// A single group is advertised as url, several as urls in registration order.
func BuildSwaggerConfig(config ViewerConfiguration, groups []APIGroup, oauth2RedirectURL string) SwaggerConfig {
	sc := SwaggerConfig{
		ConfigURL:            config.ConfigURL(),
		DomID:                config.DomID(),
		Layout:               config.Layout(),
		PersistAuthorization: config.PersistAuthorization(),
		ValidatorURL:         config.ValidatorURL(),
		OAuth2RedirectURL:    oauth2RedirectURL,
	}

	switch len(groups) {
	case 0:
	case 1:
		sc.URL = groups[0].URL
	default:
		sc.URLs = append([]APIGroup(nil), groups...)
		sc.PrimaryName = groups[0].Name
	}
	return sc
}
