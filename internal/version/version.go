// Package version checks GitHub releases for a newer build. Designed to
// fail silently; an update notice must never break the tool.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Current is the build version, overridable at link time with
// -ldflags "-X .../internal/version.Current=v1.2.3".
var Current = "v1.1.0"

const releasesURL = "https://api.github.com/repos/codebuildervaibhav/clean-transcribe/releases/latest"

type release struct {
	TagName string `json:"tag_name"`
}

// Latest fetches the newest release tag. Returns "" when the check
// cannot complete in time.
func Latest(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return ""
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var r release
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return ""
	}
	return r.TagName
}

// Notice returns an update message when latest is a newer semver than
// current, else "".
func Notice(current, latest string) string {
	current = normalize(current)
	latest = normalize(latest)
	if !semver.IsValid(current) || !semver.IsValid(latest) {
		return ""
	}
	if semver.Compare(latest, current) > 0 {
		return fmt.Sprintf("A new version of clean-transcribe is available: %s (you have %s)", latest, current)
	}
	return ""
}

// CheckForUpdates prints an update notice if one applies. Best-effort.
func CheckForUpdates(ctx context.Context) string {
	latest := Latest(ctx)
	if latest == "" {
		return ""
	}
	return Notice(Current, latest)
}

func normalize(v string) string {
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
