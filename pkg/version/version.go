// Package version reports the phihelper build and the wire settings it was built against.
package version

import (
	"fmt"
	"runtime"

	"phihelper/pkg/llm"
	"phihelper/pkg/tokens"
)

// Set with -ldflags "-X phihelper/pkg/version.Version=1.2.3 -X phihelper/pkg/version.Commit=abc".
var (
	Version = "dev"
	Commit  = "none"
)

// Info describes one phihelper binary.
type Info struct {
	Version         string
	Commit          string
	GoVersion       string
	AzureAPIVersion string // api-version sent to Azure OpenAI deployments.
	TokenEncoding   string // BPE encoding behind --debug prompt estimates.
}

// Get returns the running binary's Info.
func Get() Info {
	return Info{
		Version:         Version,
		Commit:          Commit,
		GoVersion:       runtime.Version(),
		AzureAPIVersion: llm.AzureAPIVersion,
		TokenEncoding:   tokens.Encoding,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("phihelper %s (%s, %s) azure api-version %s, tokens %s",
		i.Version, i.Commit, i.GoVersion, i.AzureAPIVersion, i.TokenEncoding)
}
