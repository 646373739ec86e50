// Package addon implements the add-on bootstrap: reading user options from
// the host-written options file, filling gaps from the add-on manifest, and
// handing the process off to the music server with the resolved values
// exported in its environment.
//
// The launcher is deliberately forgiving: option values pass through exactly
// as the host supplied them, empty strings included, and the server launch is
// always attempted regardless of configuration content. Validation belongs to
// the server, not the bootstrap.
package addon
