package version

import (
	"fmt"
	"time"

	"dogpark-server/internal/snapshot"
)

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

var buildEpoch = time.Date(
	1999, time.January, 31,
	0, 0, 0, 0,
	time.UTC,
)

// VersionInfo describes the build metadata in structured form, suitable for
// direct JSON encoding by the /api/v1/version handler. SnapshotFormat is not
// a build property at all: it's the on-disk snapshot layout this binary
// reads and writes, exposed here so an operator diffing two /version
// responses can tell whether a snapshot taken by one server is safe to load
// on the other.
type VersionInfo struct {
	BuildID        int    `json:"buildId"`
	BuildDate      string `json:"buildDate"`
	Commit         string `json:"commit"`
	Branch         string `json:"branch"`
	CI             string `json:"ci"`
	Calculated     bool   `json:"calculated"`
	Error          string `json:"error,omitempty"`
	SnapshotFormat uint32 `json:"snapshotFormat"`
}

func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", BuildDate)
	}

	// Using hours avoids DST issues; epoch and build date are both UTC.
	days := int(t.Sub(buildEpoch).Hours() / 24)
	return days, nil
}

// Info returns structured version information.
// Safe to call at any time.
func Info() VersionInfo {
	id, err := CalculateBuildID()

	info := VersionInfo{
		BuildDate:      BuildDate,
		Commit:         BuildCommit,
		Branch:         BuildBranch,
		CI:             BuildCI,
		SnapshotFormat: snapshot.FormatVersion,
	}

	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build string.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("Build unknown (%s)", info.Error)
	}

	return fmt.Sprintf(
		"Build %d (%s) commit[%s] branch[%s] ci[%s] snapshot[v%d]",
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
		info.SnapshotFormat,
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
