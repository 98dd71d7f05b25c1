package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ThMadHatter/CarCalculator/internal/model"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

// MakeDropdown is the name of the brand <select> on the search form
const MakeDropdown = "make"

// ParseDropdowns reads every <select> of a page into its non-empty options
func ParseDropdowns(page []byte) (model.Dropdowns, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	dropdowns := make(model.Dropdowns)
	doc.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name := strings.TrimSpace(sel.AttrOr("name", ""))
		if name == "" {
			name = "unnamed"
		}

		options := []model.SelectOption{}
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			label := strings.TrimSpace(opt.Text())
			if label == "" {
				return
			}
			options = append(options, model.SelectOption{
				Label: label,
				Value: strings.TrimSpace(opt.AttrOr("value", "")),
			})
		})
		dropdowns[name] = options
	})

	return dropdowns, nil
}

// ResolveBrandID maps a brand name to the site's make id. An exact
// case-insensitive match wins; otherwise the first option containing the
// name is used.
func ResolveBrandID(dropdowns model.Dropdowns, brand string) (string, bool) {
	query := strings.ToLower(strings.TrimSpace(brand))
	if query == "" {
		return "", false
	}

	options := dropdowns[MakeDropdown]
	for _, o := range options {
		if strings.ToLower(o.Label) == query && o.Value != "" {
			return o.Value, true
		}
	}
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Label), query) && o.Value != "" {
			return o.Value, true
		}
	}
	return "", false
}

// ParseTaxonomy decodes a model taxonomy payload, JSON first with a YAML
// fallback, and returns model slugs in payload order without duplicates.
// Model line labels are read in the given locale.
func ParseTaxonomy(payload []byte, locale string) ([]string, error) {
	var tax model.TaxonomyPayload
	if jsonErr := json.Unmarshal(payload, &tax); jsonErr != nil {
		tax = model.TaxonomyPayload{}
		if yamlErr := yaml.Unmarshal(payload, &tax); yamlErr != nil {
			return []string{}, fmt.Errorf("failed to decode taxonomy: %w", jsonErr)
		}
	}

	var names []string
	for _, line := range tax.Models.ModelLine.Values {
		names = append(names, line.Label[locale])
	}
	for _, m := range tax.Models.Model.Values {
		names = append(names, m.Name)
	}

	models := []string{}
	seen := make(map[string]bool)
	for _, n := range names {
		s := ModelSlug(n)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		models = append(models, s)
	}
	return models, nil
}

// ModelSlug lowercases a model name and joins its words with hyphens
func ModelSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
