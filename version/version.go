package version

// values are set at build time via ldflags
var (
	Version   = "dev"
	GitCommit = ""
	BuildDate = ""

	FullVersion = composeVersion()
)

func composeVersion() string {
	ret := Version
	if GitCommit != "" {
		ret += " (" + GitCommit + ")"
	}
	return ret
}
