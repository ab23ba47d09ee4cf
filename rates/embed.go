package rates

import _ "embed"

//go:embed default.hcl
var defaultHCL []byte
