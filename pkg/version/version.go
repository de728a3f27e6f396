package version

// Version is overridden at build time with -ldflags "-X github.com/nicobailon/wtm/pkg/version.Version=...".
var Version = "dev"
