// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package doc

import (
	"embed"

	"gopkg.in/yaml.v3"
)

// FS embeds the Open API document.
//
//go:embed relay.yaml
var FS embed.FS

var (
	version string
	paths   []string
)

// Version open api version
func Version() string {
	return version
}

// Paths returns the documented endpoint paths.
func Paths() []string {
	return paths
}

type openAPIDoc struct {
	Info struct {
		Version string
	}
	Paths map[string]yaml.Node
}

func init() {
	content, err := FS.ReadFile("relay.yaml")
	if err != nil {
		panic(err)
	}

	var oai openAPIDoc
	if err := yaml.Unmarshal(content, &oai); err != nil {
		panic(err)
	}
	version = oai.Info.Version
	for path := range oai.Paths {
		paths = append(paths, path)
	}
}
