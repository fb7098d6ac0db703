package core

import "strings"

// DetectionMethod tags how a plugin candidate was found.
type DetectionMethod string

const (
	DetectMarketplace   DetectionMethod = "marketplace"
	DetectRootManifest  DetectionMethod = "root-manifest"
	DetectPluginsDir    DetectionMethod = "plugins-dir"
	DetectComponentDirs DetectionMethod = "component-dirs"
)

// DetectedPlugin is one candidate plugin root inside an archive. Path is
// relative to the archive root prefix; empty means the whole archive.
type DetectedPlugin struct {
	Path   string
	Method DetectionMethod
}

const (
	marketplaceFragment = ".claude-plugin/marketplace.json"
	manifestDir         = ".claude-plugin/"
	manifestFile        = "plugin.json"
)

// DetectPlugins produces the ordered, path-deduplicated candidate list for an
// archive. Detection runs four methods in strict priority; each later method
// contributes only paths no earlier method claimed:
//
//  1. marketplace manifest entries
//  2. a plugin manifest at the archive root
//  3. the plugins/<name> directory convention
//  4. a component-directory heuristic, only when 1-3 found nothing
func DetectPlugins(a *Archive) []DetectedPlugin {
	root := a.RootPrefix()

	var detected []DetectedPlugin
	seen := make(map[string]bool)
	add := func(path string, method DetectionMethod) {
		if seen[path] {
			return
		}
		seen[path] = true
		detected = append(detected, DetectedPlugin{Path: path, Method: method})
	}

	if mpPath := findMarketplaceJSON(a); mpPath != "" {
		if content, err := a.ExtractFile(mpPath); err == nil {
			if m, err := ParseMarketplace(content); err == nil {
				for _, entry := range m.Plugins {
					add(resolvePluginPath(entry.Source.Path()), DetectMarketplace)
				}
			}
		}
	}

	if a.Contains(root + manifestDir + manifestFile) {
		add("", DetectRootManifest)
	}

	for _, p := range a.ListFiles(manifestFile) {
		if dir, ok := extractPluginsDirPath(strings.TrimPrefix(p, root)); ok {
			add(dir, DetectPluginsDir)
		}
	}

	if len(detected) == 0 && hasComponentDirs(a, root) {
		add("", DetectComponentDirs)
	}

	return detected
}

// findMarketplaceJSON returns the first archive entry that is a
// .claude-plugin/marketplace.json, in listing order. Empty when absent.
func findMarketplaceJSON(a *Archive) string {
	for _, p := range a.ListFiles("marketplace.json") {
		if strings.Contains(p, marketplaceFragment) {
			return p
		}
	}
	return ""
}

// resolvePluginPath normalizes a marketplace-relative source path by
// stripping a leading "./".
func resolvePluginPath(path string) string {
	return strings.TrimPrefix(path, "./")
}

// extractPluginsDirPath maps a root-relative manifest path under the
// plugins/ convention to its plugin directory: plugins/foo/plugin.json and
// plugins/foo/.claude-plugin/plugin.json both yield plugins/foo.
func extractPluginsDirPath(rel string) (string, bool) {
	rest, ok := strings.CutPrefix(rel, "plugins/")
	if !ok {
		return "", false
	}
	idx := strings.Index(rest, "/")
	if idx <= 0 {
		return "", false
	}
	return "plugins/" + rest[:idx], true
}

// hasComponentDirs reports whether at least two of skills/, commands/ and
// agents/ exist directly under the root prefix.
func hasComponentDirs(a *Archive, root string) bool {
	paths := a.ListFiles("")
	found := 0
	for _, dir := range []string{"skills/", "commands/", "agents/"} {
		for _, p := range paths {
			if strings.HasPrefix(p, root+dir) {
				found++
				break
			}
		}
	}
	return found >= 2
}
