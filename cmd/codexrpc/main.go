// Command codexrpc drives codex app-server from the shell.
package main

import "github.com/conneroisu/codex/internal/cli"

func main() {
	cli.Execute()
}
