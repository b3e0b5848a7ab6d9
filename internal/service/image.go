package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/foodlog/foodlog/internal/metrics"
	"github.com/foodlog/foodlog/internal/storage"
)

const (
	AvatarPlaceholder = "/assets/img/avatar.svg"
	FoodPlaceholder   = "/assets/img/food.svg"
)

// ImageResolver turns a stored image reference into a displayable URL.
// A reference is either an absolute http(s) URL, kept as is, or a path
// inside the resolver's bucket. Anything unusable becomes the placeholder.
type ImageResolver struct {
	storage     storage.Storage
	placeholder string
	signed      bool
	expiry      time.Duration
}

// NewAvatarResolver resolves bucket paths to signed URLs valid for expiry.
func NewAvatarResolver(st storage.Storage, expiry time.Duration) *ImageResolver {
	return &ImageResolver{storage: st, placeholder: AvatarPlaceholder, signed: true, expiry: expiry}
}

// NewFoodImageResolver resolves bucket paths to public URLs.
func NewFoodImageResolver(st storage.Storage) *ImageResolver {
	return &ImageResolver{storage: st, placeholder: FoodPlaceholder}
}

func IsAbsoluteRef(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func (r *ImageResolver) Resolve(ctx context.Context, ref *string) string {
	if ref == nil || strings.TrimSpace(*ref) == "" {
		metrics.ImageResolutions.WithLabelValues("placeholder").Inc()
		return r.placeholder
	}

	// absolute refs are returned exactly as stored
	if IsAbsoluteRef(*ref) {
		metrics.ImageResolutions.WithLabelValues("absolute").Inc()
		return *ref
	}
	path := *ref

	if !r.signed {
		metrics.ImageResolutions.WithLabelValues("public").Inc()
		return r.storage.PublicURL(path)
	}

	url, err := r.storage.PresignedURL(ctx, path, r.expiry)
	if err != nil || url == "" {
		metrics.ImageResolutions.WithLabelValues("failed").Inc()
		slog.Warn("failed to sign image url", "error", err, "path", path)
		return r.placeholder
	}

	metrics.ImageResolutions.WithLabelValues("signed").Inc()
	return url
}
