// Command binstretch searches for lower bounds in the online bin
// stretching game via minimax generation/exploration/update over a game
// DAG, per the queen/overseer/worker model in internal/search.
package main

import (
	"github.com/bohm/binstretch-search/cmd/binstretch/cmd"
)

func main() {
	cmd.Execute()
}
