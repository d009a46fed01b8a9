package repository

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"renthub/pkg/model"
)

func priceOf(v float64) *float64 {
	return &v
}

func TestBuildFilter_Empty(t *testing.T) {
	if got := buildFilter(nil); len(got) != 0 {
		t.Errorf("nil filter must produce an empty query, got %v", got)
	}
	if got := buildFilter(&model.VehicleFilter{}); len(got) != 0 {
		t.Errorf("zero filter must produce an empty query, got %v", got)
	}
}

func TestBuildFilter_ModelAnchoredCaseInsensitive(t *testing.T) {
	query := buildFilter(&model.VehicleFilter{Model: "Corolla"})

	regex := query["model"].(bson.M)["$regex"].(primitive.Regex)
	if regex.Pattern != "^Corolla$" {
		t.Errorf("expected anchored pattern, got %q", regex.Pattern)
	}
	if regex.Options != "i" {
		t.Errorf("expected case-insensitive match, got options %q", regex.Options)
	}
}

func TestBuildFilter_LocationSubstring(t *testing.T) {
	query := buildFilter(&model.VehicleFilter{Location: "Delhi"})

	regex := query["location"].(bson.M)["$regex"].(primitive.Regex)
	if regex.Pattern != "Delhi" {
		t.Errorf("location must not be anchored, got %q", regex.Pattern)
	}
}

func TestBuildFilter_PriceRange(t *testing.T) {
	query := buildFilter(&model.VehicleFilter{MinPrice: priceOf(30), MaxPrice: priceOf(80)})

	price := query["price_per_day"].(bson.M)
	if price["$gte"] != 30.0 || price["$lte"] != 80.0 {
		t.Errorf("unexpected price bounds: %v", price)
	}

	query = buildFilter(&model.VehicleFilter{MinPrice: priceOf(30)})
	price = query["price_per_day"].(bson.M)
	if _, hasMax := price["$lte"]; hasMax {
		t.Error("open-ended range must not set an upper bound")
	}
}

func TestEscapeRegex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Corolla", "Corolla"},
		{"C-Class (AMG)", `C-Class \(AMG\)`},
		{"2.0 Turbo+", `2\.0 Turbo\+`},
		{".*", `\.\*`},
		{`back\slash`, `back\\slash`},
		{"a^b$c|d", `a\^b\$c\|d`},
	}

	for _, tt := range tests {
		if got := escapeRegex(tt.input); got != tt.want {
			t.Errorf("escapeRegex(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildFilter_UserInputNeverWidensMatch(t *testing.T) {
	// A filter value full of regex metacharacters must only ever match
	// itself literally.
	query := buildFilter(&model.VehicleFilter{Model: ".*"})

	regex := query["model"].(bson.M)["$regex"].(primitive.Regex)
	if regex.Pattern != `^\.\*$` {
		t.Errorf("metacharacters must be escaped, got %q", regex.Pattern)
	}
}
