package config

// EnvPresets maps an env_presets entry to its contributed globals
// (name -> writable?): a small, fixed table covering the presets most
// JS configs actually use.
var EnvPresets = map[string]map[string]bool{
	"browser": {
		"window":       false,
		"document":     false,
		"navigator":    false,
		"location":     false,
		"console":      false,
		"fetch":        false,
		"localStorage": false,
		"sessionStorage": false,
		"setTimeout":   false,
		"clearTimeout": false,
		"setInterval":  false,
		"clearInterval": false,
	},
	"node": {
		"require":     false,
		"module":      false,
		"exports":     true,
		"process":     false,
		"__dirname":   false,
		"__filename":  false,
		"global":      false,
		"Buffer":      false,
		"console":     false,
		"setTimeout":  false,
		"setInterval": false,
	},
	"es6": {
		"Promise":    false,
		"Symbol":     false,
		"Map":        false,
		"Set":        false,
		"WeakMap":    false,
		"WeakSet":    false,
		"Proxy":      false,
		"Reflect":    false,
	},
	"es2020": {
		"BigInt":          false,
		"globalThis":      false,
		"Promise":         false,
		"Symbol":          false,
	},
	"worker": {
		"self":            false,
		"postMessage":     false,
		"importScripts":   false,
		"close":           false,
		"WorkerGlobalScope": false,
	},
}
