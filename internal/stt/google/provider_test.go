package google

import "io"

// The shutdown path in cmd/main.go closes the provider through io.Closer;
// this breaks the build if Close ever changes shape.
var _ io.Closer = (*Provider)(nil)
