// Package runnerscript embeds the Node.js script that launches NW.js.
package runnerscript

import _ "embed"

// FileName is the name the script is written under.
const FileName = "runner.js"

// Script is the runner source.
//
//go:embed runner.js
var Script []byte
