package backend

// Loadable, GRPC, HTTP, and Wasm are the remaining backend kinds spec.md
// §6 names but explicitly leaves as external, opaque-to-core concerns.
// They are documented here rather than silently absent so a reader
// scanning this package sees every kind spec.md lists and why each one
// beyond `local` is unimplemented.
type (
	// Loadable would resolve a dynamically loaded plugin module by path
	// (Options["module"]). Out of scope: spec.md §1 Non-goals exclude
	// dynamic code loading from the core's responsibilities.
	Loadable struct{}
	// GRPC would dial Options["endpoint"] and invoke a remote Process RPC.
	// Out of scope: spec.md §1 Non-goals exclude distributed scheduling.
	GRPC struct{}
	// HTTP would POST to Options["endpoint"] and decode the response.
	// Out of scope for the same reason as GRPC.
	HTTP struct{}
	// Wasm would instantiate a WebAssembly module and call an exported
	// function. Out of scope: no sandboxed execution runtime is part of
	// this repository.
	Wasm struct{}
)
