package root

import "strings"

// urlTemplate is the download location; releases are not laid out the way
// the default host convention expects.
const urlTemplate = "https://root.cern.ch/download/root_v{version}.source.tar.gz"

// URLForVersion returns the source archive URL of version ver.
func URLForVersion(ver string) string {
	return strings.Replace(urlTemplate, "{version}", ver, 1)
}
