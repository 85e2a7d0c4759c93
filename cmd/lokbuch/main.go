// Command lokbuch manages a model-train catalog from the command line.
package main

import "github.com/mesh-intelligence/lokbuch/internal/cli"

func main() {
	cli.Execute()
}
