package version

import "fmt"

var (
	Version             string // Version is updated by hand at each release. It must follow SemVer (https://semver.org)
	GitCommit, GitState string // GitCommit and GitState are overwritten by the build system
	BuildDate           string // BuildDate is overwritten by the build system
)

func ToDetailVersion() string {
	return fmt.Sprintf("version=%s git=%s state=%s build=%s", Version, GitCommit, GitState, BuildDate)
}
