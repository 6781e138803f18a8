// Command feedctl operates on the news feed cache without going through the HTTP API.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd(defaultEnv()).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
