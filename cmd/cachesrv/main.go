// Command cachesrv starts the in-memory key/value cache server.
package main

import "github.com/armandparker/cachesrv/internal/cli"

func main() {
	cli.Execute()
}
