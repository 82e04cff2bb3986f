package version

// Version is the gateway release. Overridable at build time:
//
//	go build -ldflags "-X github.com/voxlabs/voxgate/internal/version.Version=1.2.3"
var Version = "0.1.0"
