// Package releases resolves request product/version context against the
// current-versions table.
package releases

import (
	"strings"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// RequestContext is the resolved product/version context attached to every
// report request before its handler runs.
type RequestContext struct {
	Product         string
	Versions        []string
	CurrentVersions []models.VersionRelease
}

// BuildContext validates the URL product and semicolon-delimited version
// segment against the current-versions table. A missing product segment
// resolves to the configured default product; an unknown product or an
// unregistered version is a not-found fault.
func BuildContext(rawProduct, rawVersions string, current []models.VersionRelease, defaultProduct string) (RequestContext, error) {
	ctx := RequestContext{CurrentVersions: current}

	var wanted []string
	if rawVersions != "" {
		wanted = strings.Split(rawVersions, ";")
	}

	for _, release := range current {
		if release.Product != rawProduct {
			continue
		}
		ctx.Product = rawProduct
		for i, v := range wanted {
			if v == release.Version {
				wanted = append(wanted[:i], wanted[i+1:]...)
				ctx.Versions = append(ctx.Versions, release.Version)
				break
			}
		}
	}

	if rawProduct == "" {
		// A view without a product segment in its URL, such as /query.
		if ctx.Product == "" {
			ctx.Product = defaultProduct
		}
	} else if ctx.Product != rawProduct {
		return RequestContext{}, utils.NotFound("not a recognized product")
	}

	if rawProduct != "" && len(wanted) > 0 {
		return RequestContext{}, utils.NotFound("not a recognized version for that product")
	}

	return ctx, nil
}

// FeaturedVersions collects, in table order, the featured version strings
// for a product. This is the effective version set when the request names
// none.
func FeaturedVersions(current []models.VersionRelease, product string) []string {
	var versions []string
	for _, release := range current {
		if release.Product == product && release.Featured {
			versions = append(versions, release.Version)
		}
	}
	return versions
}

// FirstFeatured returns the first featured version for a product. Endpoints
// that require exactly one version redirect to it rather than silently
// substituting.
func FirstFeatured(current []models.VersionRelease, product string) (string, bool) {
	for _, release := range current {
		if release.Product == product && release.Featured {
			return release.Version, true
		}
	}
	return "", false
}

// ResolveVersions splits a raw semicolon-delimited version list, or falls
// back to the product's full featured set when the request names none.
func ResolveVersions(rawVersions string, current []models.VersionRelease, product string) []string {
	if rawVersions != "" {
		return strings.Split(rawVersions, ";")
	}
	return FeaturedVersions(current, product)
}
