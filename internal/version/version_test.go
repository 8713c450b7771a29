package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	require.NotNil(t, info)

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.OS)
	assert.NotEmpty(t, info.Arch)
	assert.Same(t, info, GetBuildInfo())
}

func TestReadBuildInfo_VCSStamps(t *testing.T) {
	read := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v1.4.2"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	b := readBuildInfo(read)

	assert.Equal(t, "1.4.2", b.Version)
	assert.Equal(t, "0123456", b.Commit)
	assert.Equal(t, "2026-10-01T12:00:00Z", b.BuildDate)
	assert.True(t, b.Dirty)
}

func TestReadBuildInfo_DevelModule(t *testing.T) {
	b := readBuildInfo(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	})
	assert.Equal(t, "dev", b.Version)

	b = readBuildInfo(func() (*debug.BuildInfo, bool) { return nil, false })
	assert.Equal(t, "unknown", b.Commit)
}

func TestBuildInfoString(t *testing.T) {
	info := &BuildInfo{Version: "1.2.0", BuildDate: "2026-10-01T12:00:00Z", Commit: "abc1234", GoVersion: "go1.26.0", OS: "linux", Arch: "amd64"}

	out := info.String()
	assert.True(t, strings.HasPrefix(out, "shoptui version 1.2.0\n"))
	assert.Contains(t, out, "Commit: abc1234\n")
	assert.Contains(t, out, "OS/Arch: linux/amd64")

	info.Dirty = true
	assert.Contains(t, info.String(), "Commit: abc1234-dirty")
}

func TestVersionString(t *testing.T) {
	assert.True(t, strings.HasPrefix(GetVersionString(), "v"))
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()

	assert.True(t, strings.HasPrefix(ua, "shoptui/"))
	assert.Contains(t, ua, "("+GetBuildInfo().OS+"/")
}

func TestAbout(t *testing.T) {
	assert.Contains(t, About(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)), "© 2026")
	assert.True(t, strings.HasSuffix(About(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC)), "© 2026-2028"))
	assert.Contains(t, About(time.Now()), License)
}
