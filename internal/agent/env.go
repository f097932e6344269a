package agent

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildTaskWithEnvironment adds the site domain and start path to the user task.
func BuildTaskWithEnvironment(rawTask, startURL string) string {
	u, err := url.Parse(startURL)
	if err != nil || u.Host == "" {
		return rawTask
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimRight(u.Path, "/")

	var pathNote string
	if path != "" && path != "/" {
		pathNote = fmt.Sprintf(`
Start path on the site: %s.
Try to stay in the section whose URL starts with this path.
Do not jump to other top-level sections of the site, especially through the
global header menu, unless the user asked for it.`,
			path,
		)
	}

	return fmt.Sprintf(
		`You are working on the site %s.
Start page: %s.%s

Do not leave this domain unless the task requires it.
User task: %s`,
		host, startURL, pathNote, rawTask,
	)
}

func normalizeURL(currentURL, target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return currentURL
	}

	u, err := url.Parse(target)
	if err == nil && u.IsAbs() {
		return target
	}
	if err != nil {
		return target
	}

	base, err := url.Parse(currentURL)
	if err != nil || base.Host == "" {
		// bare hosts such as "example.com/path"
		if !strings.Contains(target, "://") && strings.Contains(target, ".") {
			return "https://" + strings.TrimPrefix(target, "//")
		}
		return target
	}

	return base.ResolveReference(u).String()
}
