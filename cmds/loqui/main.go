package main

import (
	"github.com/loquilabs/loqui/cmdline"
)

func main() {
	cmdline.MustDispatch(trainCmd, classifyCmd, inspectVocabCmd)
}
