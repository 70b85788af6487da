package client

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gorodskoybaton/bot/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// placeholderImage replaces missing or unusable product images.
const placeholderImage = "https://via.placeholder.com/300x300.png?text=Хлеб"

// defaultWeight is assumed when a product card exposes no weight options.
const defaultWeight = "350г"

// skipMarkers filters out storefront cards that are not bread (courses,
// gift certificates and so on).
var skipMarkers = []string{"СТАЖИРОВКА", "КУРС", "ТОРТ", "ПОДАРОК", "СЕРТИФИКАТ", "НАБОР"}

var priceDigits = regexp.MustCompile(`\d+`)

type catalogParser struct {
	categories []string
}

func newCatalogParser(categories []string) *catalogParser {
	return &catalogParser{categories: categories}
}

// ParseCatalog extracts products for every configured category from the
// storefront page. Product ids are sequential within one parse, so they
// are stable only until the next refresh.
func (p *catalogParser) ParseCatalog(html string) (*domain.Catalog, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	catalog := &domain.Catalog{}
	productID := 0

	for _, name := range p.categories {
		section := p.findCategorySection(doc, name)
		if section == nil {
			log.Warnf("Category section not found: %s", name)
			continue
		}

		category := domain.Category{Name: name}
		section.Find(".js-product").Each(func(i int, card *goquery.Selection) {
			product, ok := p.parseProductCard(card)
			if !ok {
				return
			}
			productID++
			product.ID = productID
			category.Products = append(category.Products, product)
		})

		if len(category.Products) == 0 {
			log.Warnf("No products parsed for category %s", name)
			continue
		}
		catalog.Categories = append(catalog.Categories, category)
	}

	if catalog.Empty() {
		return nil, fmt.Errorf("no products found on storefront page")
	}

	return catalog, nil
}

// findCategorySection locates the tab content block whose title matches
// the category name. Falls back to the whole document when the page is
// not tabbed, so a flat storefront still parses into the first category.
func (p *catalogParser) findCategorySection(doc *goquery.Document, name string) *goquery.Selection {
	var section *goquery.Selection

	doc.Find(".t-store__tab, [data-tab-title]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		title, _ := s.Attr("data-tab-title")
		if title == "" {
			title = strings.TrimSpace(s.Find(".t-store__tab__title").First().Text())
		}
		if strings.EqualFold(strings.TrimSpace(title), name) {
			section = s
			return false
		}
		return true
	})

	if section != nil {
		return section
	}

	// Single-category fallback: hand the whole document to the first
	// configured category only.
	if len(p.categories) > 0 && p.categories[0] == name {
		return doc.Selection
	}
	return nil
}

func (p *catalogParser) parseProductCard(card *goquery.Selection) (domain.Product, bool) {
	name := strings.TrimSpace(card.Find(".js-product-name").First().Text())
	if name == "" || p.skipName(name) {
		return domain.Product{}, false
	}

	composition := strings.TrimSpace(card.Find(".js-store-prod-descr").First().Text())
	if composition == "" {
		composition = "Состав не указан"
	}

	basePrice, ok := p.parsePrice(card.Find(".js-product-price").First().Text())
	weights, prices := p.parseWeightOptions(card, basePrice)
	if len(weights) == 0 {
		if !ok {
			log.Debugf("Skipping %s: no price found", name)
			return domain.Product{}, false
		}
		weights = []string{defaultWeight}
		prices = map[string]int{defaultWeight: basePrice}
	}

	return domain.Product{
		Name:        name,
		Weights:     weights,
		Prices:      prices,
		Composition: composition,
		ImageURL:    p.parseImageURL(card),
	}, true
}

func (p *catalogParser) skipName(name string) bool {
	upper := strings.ToUpper(name)
	for _, marker := range skipMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(name), "кекс")
}

// parseWeightOptions reads the weight variant inputs of a product card.
// A variant input may carry its own price in data-price; otherwise the
// card base price applies to that weight.
func (p *catalogParser) parseWeightOptions(card *goquery.Selection, basePrice int) ([]string, map[string]int) {
	var weights []string
	prices := make(map[string]int)

	card.Find("input[name='Вес']").Each(func(i int, input *goquery.Selection) {
		val, _ := input.Attr("value")
		val = strings.TrimSpace(val)
		if val == "" {
			return
		}
		weight := val
		if _, err := strconv.Atoi(val); err == nil {
			weight = val + "г"
		}

		price := basePrice
		if raw, exists := input.Attr("data-price"); exists {
			if parsed, ok := p.parsePrice(raw); ok {
				price = parsed
			}
		}
		if price <= 0 {
			return
		}

		weights = append(weights, weight)
		prices[weight] = price
	})

	return weights, prices
}

// parsePrice pulls the first integer out of a price string and converts
// it to minor units. Storefront prices are whole rubles.
func (p *catalogParser) parsePrice(text string) (int, bool) {
	match := priceDigits.FindString(strings.ReplaceAll(text, " ", ""))
	if match == "" {
		return 0, false
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return value * 100, true
}

func (p *catalogParser) parseImageURL(card *goquery.Selection) string {
	img := card.Find("img.js-product-img").First()
	src, exists := img.Attr("data-original")
	if !exists || src == "" {
		src, _ = img.Attr("src")
	}
	if src == "" {
		return placeholderImage
	}
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	return src
}
