package catalogue

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"finitefield.org/flor-web/internal/format"
)

// Product is one catalogue record, rendered as a product card.
type Product struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	PriceText      string
	Image          string
	Stock          Stock
	SafetyBoxPrice decimal.Decimal
	Description    template.HTML
}

func (p Product) ListingName() string                  { return p.Name }
func (p Product) ListingPrice() (decimal.Decimal, bool) { return p.Price, true }
func (p Product) ListingStock() Stock                   { return p.Stock }

// HasSafetyBox reports whether the product offers the safety box add-on.
func (p Product) HasSafetyBox() bool { return p.SafetyBoxPrice.IsPositive() }

type sourceFile struct {
	Products []sourceProduct `yaml:"products"`
}

type sourceProduct struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Price          string `yaml:"price"`
	Image          string `yaml:"image"`
	Stock          string `yaml:"stock"`
	SafetyBoxPrice string `yaml:"safety_box_price"`
	Description    string `yaml:"description"`
}

var (
	namePolicy        = bluemonday.StrictPolicy()
	descriptionPolicy = bluemonday.UGCPolicy()
	markdown          = goldmark.New()
)

// LoadFile reads a YAML catalogue from disk.
func LoadFile(path string) ([]Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalogue: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadProducts(f)
}

// LoadProducts parses a YAML catalogue. Order in the file is the display order.
func LoadProducts(r io.Reader) ([]Product, error) {
	var src sourceFile
	if err := yaml.NewDecoder(r).Decode(&src); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalogue: parse: %w", err)
	}
	seen := make(map[string]struct{}, len(src.Products))
	out := make([]Product, 0, len(src.Products))
	for i, sp := range src.Products {
		p, err := sp.product()
		if err != nil {
			return nil, fmt.Errorf("catalogue: product %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalogue: product %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

func (sp sourceProduct) product() (Product, error) {
	id := strings.TrimSpace(sp.ID)
	if id == "" {
		return Product{}, errors.New("missing id")
	}
	name := strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(sp.Name)))
	if name == "" {
		return Product{}, fmt.Errorf("%s: missing name", id)
	}
	price, err := format.ParsePeso(sp.Price)
	if err != nil {
		return Product{}, fmt.Errorf("%s: %w", id, err)
	}
	surcharge := decimal.Zero
	if strings.TrimSpace(sp.SafetyBoxPrice) != "" {
		surcharge, err = format.ParsePeso(sp.SafetyBoxPrice)
		if err != nil {
			return Product{}, fmt.Errorf("%s: safety box: %w", id, err)
		}
	}
	var desc template.HTML
	if body := strings.TrimSpace(sp.Description); body != "" {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(body), &buf); err != nil {
			return Product{}, fmt.Errorf("%s: description: %w", id, err)
		}
		desc = template.HTML(descriptionPolicy.SanitizeBytes(buf.Bytes()))
	}
	return Product{
		ID:             id,
		Name:           name,
		Price:          price,
		PriceText:      format.FmtPesoShort(price),
		Image:          strings.TrimSpace(sp.Image),
		Stock:          ParseStock(sp.Stock),
		SafetyBoxPrice: surcharge,
		Description:    desc,
	}, nil
}

// Lookup finds a product by id.
func Lookup(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
