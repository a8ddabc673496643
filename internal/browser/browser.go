// Package browser locates a browser executable for the dynamic
// renderer. Preference order: explicit configuration, Microsoft Edge,
// the CNOOC enterprise secure browser, then whatever rod's launcher
// finds on the system. With no hit the launcher downloads its own
// Chromium.
package browser

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-rod/rod/lib/launcher"
)

const (
	// EdgePathEnv overrides Microsoft Edge discovery.
	EdgePathEnv = "EDGE_BROWSER_PATH"

	// EnterprisePathEnv overrides enterprise secure browser discovery.
	EnterprisePathEnv = "CNOOC_BROWSER_PATH"
)

// Resolve returns the executable to launch and a name for logging. An
// empty path leaves the choice to the launcher.
func Resolve(configured string) (path, name string) {
	if configured != "" && fileExists(configured) {
		return configured, "configured browser"
	}
	if p := EdgePath(); p != "" {
		return p, "Microsoft Edge"
	}
	if p := EnterprisePath(); p != "" {
		return p, "中国海油企业安全浏览器"
	}
	if p, ok := launcher.LookPath(); ok {
		return p, "system browser"
	}
	return "", "bundled Chromium"
}

// EdgePath finds a Microsoft Edge executable, checking EdgePathEnv
// first and then the usual install locations.
func EdgePath() string {
	return firstExisting(EdgePathEnv, edgeCandidates())
}

// EnterprisePath finds the CNOOC enterprise secure browser, checking
// EnterprisePathEnv first and then the usual install locations.
func EnterprisePath() string {
	return firstExisting(EnterprisePathEnv, enterpriseCandidates())
}

func firstExisting(envVar string, candidates []string) string {
	if p := os.Getenv(envVar); p != "" && fileExists(p) {
		return p
	}
	for _, p := range candidates {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func edgeCandidates() []string {
	if runtime.GOOS == "windows" {
		paths := []string{
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
			`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
		}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, `AppData\Local\Microsoft\Edge\Application\msedge.exe`))
		}
		return paths
	}
	return []string{
		"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
		"/usr/bin/microsoft-edge",
		"/usr/bin/msedge",
		"/usr/local/bin/microsoft-edge",
	}
}

func enterpriseCandidates() []string {
	if runtime.GOOS == "windows" {
		paths := []string{
			`C:\Program Files\中国海油企业安全浏览器\chrome.exe`,
			`C:\Program Files (x86)\中国海油企业安全浏览器\chrome.exe`,
			`C:\Program Files\中国海油企业安全浏览器\中国海油企业安全浏览器.exe`,
			`C:\Program Files (x86)\中国海油企业安全浏览器\中国海油企业安全浏览器.exe`,
		}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths,
				filepath.Join(home, `AppData\Local\中国海油企业安全浏览器\Application\chrome.exe`),
				filepath.Join(home, `AppData\Local\中国海油企业安全浏览器\Application\中国海油企业安全浏览器.exe`),
			)
		}
		return paths
	}
	return []string{
		"/Applications/中国海油企业安全浏览器.app/Contents/MacOS/中国海油企业安全浏览器",
		"/Applications/中国海油企业安全浏览器.app/Contents/MacOS/Chrome",
		"/usr/bin/中国海油企业安全浏览器",
		"/usr/local/bin/中国海油企业安全浏览器",
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
