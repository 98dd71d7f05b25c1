package scraper

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	priceClassPattern = regexp.MustCompile(`(?i)price`)
	euroAmountPattern = regexp.MustCompile(`€\s*\d`)
)

// ParsePriceText reduces a price label such as "€ 12.500,-" to its digits.
// Text without digits yields false.
func ParsePriceText(text string) (int, bool) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}

	value, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return value, true
}

// ExtractPrices returns the positive listing prices found on a search result
// page. Unrecognised markup yields an empty result, never an error.
func ExtractPrices(page []byte) []int {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil
	}

	texts := priceNodeTexts(doc)
	if len(texts) == 0 {
		texts = euroTextNodes(doc)
	}

	var prices []int
	for _, t := range texts {
		if p, ok := ParsePriceText(t); ok && p > 0 {
			prices = append(prices, p)
		}
	}
	return prices
}

// priceNodeTexts collects the text of the innermost price-classed divs that mention €
func priceNodeTexts(doc *goquery.Document) []string {
	var texts []string
	doc.Find("div").FilterFunction(hasPriceClass).Each(func(_ int, s *goquery.Selection) {
		if s.Find("div").FilterFunction(hasPriceClass).Length() > 0 {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if strings.Contains(text, "€") {
			texts = append(texts, text)
		}
	})
	return texts
}

func hasPriceClass(_ int, s *goquery.Selection) bool {
	class, ok := s.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(class) {
		if priceClassPattern.MatchString(c) {
			return true
		}
	}
	return false
}

// euroTextNodes is the fallback for pages without price classes
func euroTextNodes(doc *goquery.Document) []string {
	var texts []string
	doc.Find("*").Not("script, style").Contents().Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		if node.Type != html.TextNode {
			return
		}
		if euroAmountPattern.MatchString(node.Data) {
			texts = append(texts, node.Data)
		}
	})
	return texts
}
