package helpers

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	LocationFolder = "locations"
)

// StringTrim trims surrounding whitespace and stray quotes that clients
// sometimes send around ids.
func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'")
	return strings.TrimSpace(s)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// RemoveDuplicates drops repeated and blank entries, keeping first-seen order.
func RemoveDuplicates(items []string) []string {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// UploadImage copies a remote image or local file into the given Cloudinary
// folder and returns its secure URL.
func UploadImage(ctx context.Context, cld *cloudinary.Cloudinary, source string, folder string) (string, error) {
	if cld == nil {
		return "", fmt.Errorf("cloudinary is not configured")
	}
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("image source is empty")
	}

	uploadResult, err := cld.Upload.Upload(ctx, source, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"crumbs-app"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", source, err)
	}
	return uploadResult.SecureURL, nil
}
