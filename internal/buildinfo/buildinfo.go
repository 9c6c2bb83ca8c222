// Package buildinfo holds the repository details of the git-details binary itself.
//
// Release builds inject values through the linker, for example
//
//	-ldflags "-X github.com/temirov/gitdetails/internal/buildinfo.revision=$(git rev-parse HEAD)"
//
// and Current fills whatever was not injected from the VCS stamp the Go
// toolchain records in the binary.
package buildinfo

import (
	"path"
	"runtime/debug"
	"strconv"

	"github.com/temirov/gitdetails/internal/details"
)

const (
	vcsRevisionSettingConstant = "vcs.revision"
	vcsModifiedSettingConstant = "vcs.modified"
)

var (
	name     string
	revision string
	branch   string
	tag      string
	url      string
	git      string
	dirty    string
)

// Injected carries the linker-provided values. Dirty is parsed with strconv.ParseBool.
type Injected struct {
	Name     string
	Revision string
	Branch   string
	Tag      string
	URL      string
	Git      string
	Dirty    string
}

// Current returns the details of the running binary.
func Current() details.Details {
	info, available := debug.ReadBuildInfo()
	if !available {
		info = nil
	}
	return Resolve(Injected{
		Name:     name,
		Revision: revision,
		Branch:   branch,
		Tag:      tag,
		URL:      url,
		Git:      git,
		Dirty:    dirty,
	}, info)
}

// Resolve merges injected values with the VCS settings of info. Injected values win.
func Resolve(injected Injected, info *debug.BuildInfo) details.Details {
	resolved := details.Details{
		Name:     injected.Name,
		Revision: injected.Revision,
		Branch:   injected.Branch,
		Tag:      injected.Tag,
		URL:      injected.URL,
		Git:      injected.Git,
	}
	resolved.IsDirty, _ = strconv.ParseBool(injected.Dirty)

	if info == nil {
		return resolved
	}

	if len(resolved.Name) == 0 && len(info.Main.Path) > 0 {
		resolved.Name = path.Base(info.Main.Path)
	}

	settings := make(map[string]string, len(info.Settings))
	for _, setting := range info.Settings {
		settings[setting.Key] = setting.Value
	}

	if len(injected.Dirty) == 0 {
		resolved.IsDirty, _ = strconv.ParseBool(settings[vcsModifiedSettingConstant])
	}
	if len(resolved.Revision) == 0 && len(settings[vcsRevisionSettingConstant]) > 0 {
		resolved.Revision = settings[vcsRevisionSettingConstant]
		if resolved.IsDirty {
			resolved.Revision += details.DirtySuffixConstant
		}
	}
	return resolved
}
