package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Product is an immutable catalog entry for the current session. The set is
// replaced wholesale on refresh.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

// RawID accepts the product id as either a JSON string or a number; upstream
// services disagree on the type and one odd record must not discard the page.
type RawID string

func (f *RawID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = RawID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = RawID(n.String())
	return nil
}

// RawProduct mirrors a record returned by the products service before mapping.
type RawProduct struct {
	ID                RawID       `json:"id"`
	Title             string      `json:"title"`
	Name              string      `json:"name"`
	Price             any         `json:"price"`
	Category          string      `json:"category"`
	AvailableQuantity *int        `json:"available_quantity"`
	Stock             *int        `json:"stock"`
	Image             string      `json:"image"`
	Description       string      `json:"description"`
}

// MapProduct normalises a raw service record into a Product. Prices are coerced
// numerically (unparsable becomes 0), quantity falls back across field aliases,
// and a missing image gets a deterministic fallback.
func MapProduct(raw RawProduct) Product {
	title := raw.Title
	if title == "" {
		title = raw.Name
	}
	p := Product{
		ID:          string(raw.ID),
		Title:       title,
		Price:       coercePrice(raw.Price),
		Category:    raw.Category,
		Stock:       quantityOf(raw),
		Image:       strings.TrimSpace(raw.Image),
		Description: raw.Description,
	}
	if p.Image == "" {
		p.Image = FallbackImage(p.Category, p.ID)
	}
	return p
}

func coercePrice(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		if t < 0 {
			return 0
		}
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil || f < 0 {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || f < 0 {
			return 0
		}
		return f
	case int:
		if t < 0 {
			return 0
		}
		return float64(t)
	default:
		return 0
	}
}

func quantityOf(raw RawProduct) int {
	if raw.AvailableQuantity != nil {
		return clampNonNegative(*raw.AvailableQuantity)
	}
	if raw.Stock != nil {
		return clampNonNegative(*raw.Stock)
	}
	return 0
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// categoryImages maps category keywords to curated fallback images.
var categoryImages = []struct {
	keyword string
	url     string
}{
	{"electronic", "https://images.unsplash.com/photo-1498049794561-7780e7231661?w=640"},
	{"phone", "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=640"},
	{"computer", "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=640"},
	{"fashion", "https://images.unsplash.com/photo-1445205170230-053b83016050?w=640"},
	{"cloth", "https://images.unsplash.com/photo-1489987707025-afc232f7ea0f?w=640"},
	{"shoe", "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=640"},
	{"food", "https://images.unsplash.com/photo-1504674900247-0877df9cc836?w=640"},
	{"grocery", "https://images.unsplash.com/photo-1542838132-92c53300491e?w=640"},
	{"book", "https://images.unsplash.com/photo-1512820790803-83ca734da794?w=640"},
	{"toy", "https://images.unsplash.com/photo-1558060370-d644479cb6f7?w=640"},
	{"home", "https://images.unsplash.com/photo-1484101403633-562f891dc89a?w=640"},
	{"sport", "https://images.unsplash.com/photo-1461896836934-ffe607ba8211?w=640"},
}

// FallbackImage picks an image for a product without one. A category keyword
// match wins; otherwise the placeholder is seeded by product id so the same
// product always resolves to the same picture.
func FallbackImage(category, id string) string {
	lowered := strings.ToLower(category)
	for _, entry := range categoryImages {
		if strings.Contains(lowered, entry.keyword) {
			return entry.url
		}
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s/640/480", sanitizeSeed(id))
}

func sanitizeSeed(id string) string {
	if id == "" {
		return "product"
	}
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
