package media

import (
	"testing"

	"github.com/bannugul/consumer-gateway/pkg/config"
)

func TestResolverURL(t *testing.T) {
	r := NewResolver(config.MediaConfig{BaseURL: "https://cdn.example.com/media/images/"})

	if got := r.ProductURL("burger.jpg"); got != "https://cdn.example.com/media/images/products/burger.jpg" {
		t.Fatalf("unexpected product url %q", got)
	}
	if got := r.SliderURL("promo.png"); got != "https://cdn.example.com/media/images/sliders/promo.png" {
		t.Fatalf("unexpected slider url %q", got)
	}
	if got := r.RestaurantURL(""); got != "" {
		t.Fatalf("empty filename must resolve to empty, got %q", got)
	}
	if got := r.UserURL("https://elsewhere.example.com/a.png"); got != "https://elsewhere.example.com/a.png" {
		t.Fatalf("absolute urls must pass through, got %q", got)
	}
}
