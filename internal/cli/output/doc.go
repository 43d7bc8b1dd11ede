// Package output formats server replies for respkv-cli.
//
//   - text: human readable, in the style of redis-cli
//   - raw: the reply exactly as encoded on the wire
//   - json, yaml: machine readable, for scripting
package output
