package model

// BrandListResponse lists the brands offered by the listing site
type BrandListResponse struct {
	Brands []string `json:"brands"`
}

// ModelListResponse lists the models of one brand
type ModelListResponse struct {
	Brand  string   `json:"brand"`
	Models []string `json:"models"`
}

// SelectOption is one <option> of a search-form dropdown
type SelectOption struct {
	Label string
	Value string
}

// Dropdowns maps a <select> name to its options in page order
type Dropdowns map[string][]SelectOption

// Labels returns the option labels of the named dropdown
func (d Dropdowns) Labels(name string) []string {
	opts := d[name]
	labels := make([]string, 0, len(opts))
	for _, o := range opts {
		labels = append(labels, o.Label)
	}
	return labels
}

// TaxonomyPayload is the model taxonomy returned for one brand.
// Every level is optional; absent levels decode to empty values.
type TaxonomyPayload struct {
	Models struct {
		ModelLine struct {
			Values []TaxonomyModelLine `json:"values" yaml:"values"`
		} `json:"modelLine" yaml:"modelLine"`
		Model struct {
			Values []TaxonomyModel `json:"values" yaml:"values"`
		} `json:"model" yaml:"model"`
	} `json:"models" yaml:"models"`
}

// TaxonomyModelLine is a model line with localized labels
type TaxonomyModelLine struct {
	Label map[string]string `json:"label" yaml:"label"`
}

// TaxonomyModel is a single model entry
type TaxonomyModel struct {
	Name string `json:"name" yaml:"name"`
}
