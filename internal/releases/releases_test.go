package releases

import (
	"errors"
	"reflect"
	"testing"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

var table = []models.VersionRelease{
	{Product: "Firefox", Version: "26.0a1", Featured: true},
	{Product: "Firefox", Version: "24.0", Featured: true},
	{Product: "Firefox", Version: "23.0.1", Featured: false},
	{Product: "Thunderbird", Version: "24.0", Featured: true},
	{Product: "SeaMonkey", Version: "2.20", Featured: false},
}

func TestBuildContext(t *testing.T) {
	tests := []struct {
		name         string
		product      string
		versions     string
		wantProduct  string
		wantVersions []string
		wantErr      error
	}{
		{
			name:        "known product no versions",
			product:     "Firefox",
			wantProduct: "Firefox",
		},
		{
			name:         "known product with versions",
			product:      "Firefox",
			versions:     "24.0;23.0.1",
			wantProduct:  "Firefox",
			wantVersions: []string{"24.0", "23.0.1"},
		},
		{
			name:        "empty product falls back to default",
			product:     "",
			wantProduct: "Firefox",
		},
		{
			name:    "unknown product",
			product: "Netscape",
			wantErr: utils.ErrNotFound,
		},
		{
			name:     "version from another product",
			product:  "Thunderbird",
			versions: "26.0a1",
			wantErr:  utils.ErrNotFound,
		},
		{
			name:     "one good one bogus version",
			product:  "Firefox",
			versions: "24.0;99.9",
			wantErr:  utils.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := BuildContext(tt.product, tt.versions, table, "Firefox")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ctx.Product != tt.wantProduct {
				t.Errorf("Product = %q, want %q", ctx.Product, tt.wantProduct)
			}
			if !reflect.DeepEqual(ctx.Versions, tt.wantVersions) {
				t.Errorf("Versions = %v, want %v", ctx.Versions, tt.wantVersions)
			}
		})
	}
}

func TestFeaturedVersions(t *testing.T) {
	got := FeaturedVersions(table, "Firefox")
	want := []string{"26.0a1", "24.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FeaturedVersions = %v, want %v", got, want)
	}
	if got := FeaturedVersions(table, "SeaMonkey"); got != nil {
		t.Errorf("FeaturedVersions(SeaMonkey) = %v, want none", got)
	}
}

func TestFirstFeatured(t *testing.T) {
	version, ok := FirstFeatured(table, "Firefox")
	if !ok || version != "26.0a1" {
		t.Errorf("FirstFeatured(Firefox) = %q, %v, want 26.0a1 in table order", version, ok)
	}
	if _, ok := FirstFeatured(table, "SeaMonkey"); ok {
		t.Error("FirstFeatured(SeaMonkey) = true, want false")
	}
}

func TestResolveVersions(t *testing.T) {
	if got := ResolveVersions("24.0;23.0.1", table, "Firefox"); !reflect.DeepEqual(got, []string{"24.0", "23.0.1"}) {
		t.Errorf("explicit versions = %v", got)
	}
	if got := ResolveVersions("", table, "Firefox"); !reflect.DeepEqual(got, []string{"26.0a1", "24.0"}) {
		t.Errorf("featured fallback = %v", got)
	}
}
