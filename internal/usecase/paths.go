package usecase

import (
	"fmt"
	"regexp"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(name string) string {
	safe := unsafeFilenameChars.ReplaceAllString(name, "_")
	if safe == "" {
		return "image"
	}
	return safe
}

// UploadObjectPath is the storage location for an initial gallery upload.
func UploadObjectPath(galleryID, filename string, ts time.Time) string {
	return fmt.Sprintf("proof-images/%s/%d_%s",
		galleryID, ts.UnixMilli(), sanitizeFilename(filename))
}

// ThumbnailObjectPath is the storage location for an upload's thumbnail.
func ThumbnailObjectPath(galleryID, filename string, ts time.Time) string {
	return fmt.Sprintf("proof-images/%s/thumbs/%d_%s.webp",
		galleryID, ts.UnixMilli(), sanitizeFilename(filename))
}

// VersionObjectPath is the storage location for a replacement upload. The
// path is namespaced by proof and version number, so no prior version's
// object is ever overwritten.
func VersionObjectPath(galleryID, proofID string, version int, filename string, ts time.Time) string {
	return fmt.Sprintf("proof-images/%s/versions/%s/v%d_%d_%s",
		galleryID, proofID, version, ts.UnixMilli(), sanitizeFilename(filename))
}

// VersionThumbnailPath is the storage location for a replacement's thumbnail.
func VersionThumbnailPath(galleryID, proofID string, version int, filename string, ts time.Time) string {
	return fmt.Sprintf("proof-images/%s/versions/%s/thumbs/v%d_%d_%s.webp",
		galleryID, proofID, version, ts.UnixMilli(), sanitizeFilename(filename))
}
