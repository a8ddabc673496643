package urlutil

import "strings"

// downloadExtensions are file suffixes that mark a link as a download
// target. Probing these would pull binary payloads or count expected
// non-HTML responses as failures, so the checker skips them outright.
var downloadExtensions = []string{
	".pdf",
	".jpg", ".jpeg", ".png", ".gif",
	".zip", ".rar",
	".doc", ".docx",
	".xls", ".xlsx",
	".ppt", ".pptx",
	".mp4", ".mp3", ".avi", ".mov",
	".exe", ".dmg",
}

// IsDownloadURL reports whether rawURL ends in a known file-download
// extension. The match is case-insensitive.
func IsDownloadURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, ext := range downloadExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
