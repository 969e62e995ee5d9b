package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/go-github/v80/github"
	"github.com/thomas-vilte/matereview/internal/i18n"
	"github.com/thomas-vilte/matereview/internal/logger"
	"golang.org/x/mod/semver"
)

const (
	releaseOwner        = "thomas-vilte"
	releaseRepo         = "matereview"
	releaseCheckTimeout = 5 * time.Second
	installCommand      = "go install github.com/thomas-vilte/matereview/cmd@latest"
)

type releaseService interface {
	GetLatestRelease(ctx context.Context, owner, repo string) (*github.RepositoryRelease, *github.Response, error)
}

// VersionChecker compares the running build against the latest published
// release. It never modifies the installed binary.
type VersionChecker struct {
	releases       releaseService
	currentVersion string
	trans          *i18n.Translations
}

func NewVersionChecker(currentVersion string, trans *i18n.Translations) *VersionChecker {
	return NewVersionCheckerWithService(github.NewClient(nil).Repositories, currentVersion, trans)
}

func NewVersionCheckerWithService(releases releaseService, currentVersion string, trans *i18n.Translations) *VersionChecker {
	return &VersionChecker{
		releases:       releases,
		currentVersion: currentVersion,
		trans:          trans,
	}
}

// CheckForUpdates returns the latest release tag and whether it is newer
// than the running version.
func (v *VersionChecker) CheckForUpdates(ctx context.Context) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, releaseCheckTimeout)
	defer cancel()

	release, _, err := v.releases.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil {
		logger.Debug(ctx, "latest release lookup failed", "error", err)
		return "", false, fmt.Errorf("error getting latest release: %w", err)
	}

	latest := release.GetTagName()
	if latest == "" {
		return "", false, fmt.Errorf("latest release of %s/%s has no tag", releaseOwner, releaseRepo)
	}

	return latest, v.IsUpdateAvailable(latest), nil
}

func (v *VersionChecker) IsUpdateAvailable(latest string) bool {
	current := v.currentVersion
	if !strings.HasPrefix(current, "v") {
		current = "v" + current
	}
	if !strings.HasPrefix(latest, "v") {
		latest = "v" + latest
	}

	if !semver.IsValid(current) || !semver.IsValid(latest) {
		return current != latest
	}

	return semver.Compare(latest, current) > 0
}

func (v *VersionChecker) PrintUpdateNotification(w io.Writer, latest string) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()

	available := v.trans.GetMessage("update_available", 0, map[string]interface{}{
		"Current": v.currentVersion,
		"Latest":  green(latest),
	})
	command := v.trans.GetMessage("update_command", 0, map[string]interface{}{
		"Command": green(installCommand),
	})

	_, _ = fmt.Fprintf(w, "%s\n%s\n", yellow(available), command)
}

func (v *VersionChecker) PrintUpToDate(w io.Writer) {
	green := color.New(color.FgGreen).SprintFunc()
	_, _ = fmt.Fprintln(w, green(v.trans.GetMessage("update_up_to_date", 0, map[string]interface{}{
		"Current": v.currentVersion,
	})))
}
