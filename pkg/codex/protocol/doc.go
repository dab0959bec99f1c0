// Package protocol declares the payloads exchanged with codex app-server.
//
// Optional members are pointers with omitempty so that an unset field is
// left out of the request entirely. Thread, Turn, and ThreadStartParams keep
// members they do not model in an Extra map and write them back unchanged.
package protocol
