package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, GitCommit, info.GitCommit)
	assert.Equal(t, GoVersion, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
	assert.Contains(t, info.Platform, "/")
}

func TestGetBuildInfoParsesBuildDate(t *testing.T) {
	orig := BuildDate
	defer func() { BuildDate = orig }()

	BuildDate = "2025-06-01T12:00:00Z"
	info := GetBuildInfo()
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), info.BuildTime)

	BuildDate = "not-a-date"
	info = GetBuildInfo()
	assert.True(t, info.BuildTime.IsZero())
}
