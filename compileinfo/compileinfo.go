// Package compileinfo reports the module path, Go version and VCS state the
// running binary was built from.
package compileinfo

import (
	"fmt"
	"os"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Package == "" {
		return "Build information is unavailable for this binary."
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	commit := c.Commit
	if commit == "" {
		commit = "(unknown)"
	}

	return fmt.Sprintf("This %s binary (version %s) was built with %s at commit %s at time %s.%s", c.Package, c.Version, c.GoVersion, commit, c.CommitTime, mod)
}

func Get() CompileInfo {
	return fromBuildInfo(debug.ReadBuildInfo())
}

func fromBuildInfo(z *debug.BuildInfo, ok bool) CompileInfo {
	out := CompileInfo{}
	if !ok || z == nil {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

func PrintToStdErr() {
	fmt.Fprintf(os.Stderr, "%s\n", Get())
}
