// Command logicsim runs the logicsim command-line interface.
package main

import "github.com/sarchlab/logicsim/cmd"

func main() {
	cmd.Execute()
}
