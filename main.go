// Command guestpulse analyzes guest review exports: sentiment, topics,
// aspect impact, and the weekly report.
package main

import (
	"os"

	"github.com/otherjamesbrown/guestpulse/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
