// Package version reports the console build, injected at link time:
//
//	go build -ldflags "-X admin-console/desktop/internal/version.tag=v1.2.0
//	  -X admin-console/desktop/internal/version.commit=abc1234" ./cmd/console
package version

var (
	tag    = ""
	commit = ""
)

// String returns the tag, else the commit, else "dev".
func String() string {
	switch {
	case tag != "":
		return tag
	case commit != "":
		return commit
	}
	return "dev"
}
