package media

import (
	"net/url"
	"strings"

	"github.com/bannugul/consumer-gateway/pkg/config"
)

// Kind names an image asset folder on the media host.
type Kind string

const (
	KindSlider     Kind = "sliders"
	KindRestaurant Kind = "restaurants"
	KindProduct    Kind = "products"
	KindCategory   Kind = "categories"
	KindUser       Kind = "users"
)

// Resolver turns the bare image filenames the backend returns into absolute
// URLs the storefront can render.
type Resolver struct {
	base string
}

func NewResolver(cfg config.MediaConfig) *Resolver {
	return &Resolver{base: strings.TrimRight(cfg.BaseURL, "/")}
}

// URL resolves a filename for the given asset kind. Empty filenames and
// already-absolute URLs pass through unchanged.
func (r *Resolver) URL(kind Kind, filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return ""
	}
	if parsed, err := url.Parse(name); err == nil && parsed.IsAbs() {
		return name
	}
	return r.base + "/" + string(kind) + "/" + name
}

func (r *Resolver) SliderURL(filename string) string     { return r.URL(KindSlider, filename) }
func (r *Resolver) RestaurantURL(filename string) string { return r.URL(KindRestaurant, filename) }
func (r *Resolver) ProductURL(filename string) string    { return r.URL(KindProduct, filename) }
func (r *Resolver) CategoryURL(filename string) string   { return r.URL(KindCategory, filename) }
func (r *Resolver) UserURL(filename string) string       { return r.URL(KindUser, filename) }
