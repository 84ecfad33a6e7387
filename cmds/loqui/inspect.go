package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/loquilabs/loqui/cmdline"
	"github.com/loquilabs/loqui/training/artifacts"
)

var inspectVocabCmd = cmdline.Command{
	Name:     "inspect-vocab",
	Synopsis: "print a summary of trained artifacts",
	Args: &inspectVocabArgs{
		Models: artifacts.DefaultDir,
		Top:    25,
	},
}

type inspectVocabArgs struct {
	Models string `help:"artifact directory"`
	Top    int    `help:"number of most frequent words to print"`
}

func (args *inspectVocabArgs) Handle() error {
	arts, err := artifacts.Load(args.Models)
	if err != nil {
		return err
	}

	for _, name := range []string{artifacts.ModelFile, artifacts.VocabFile, artifacts.LabelsFile} {
		if info, err := os.Stat(filepath.Join(args.Models, name)); err == nil {
			fmt.Printf("%-20s %s\n", name, humanize.Bytes(uint64(info.Size())))
		}
	}

	hp := arts.Model.HParams
	fmt.Printf("network: embd=%d lstm=%d/%d dense=%d dropout=%.2f\n",
		hp.EmbeddingSize, hp.LSTMSize1, hp.LSTMSize2, hp.DenseSize, hp.Dropout)
	fmt.Printf("context length: %d tokens\n", hp.ContextSize)
	fmt.Printf("classes (%d): %s\n", arts.Labels.Size(), strings.Join(arts.Labels.Classes(), ", "))
	fmt.Printf("vocabulary: %d ids (including padding and %q)\n", arts.Vocab.Size(), arts.Vocab.OOVToken())

	// Ids are assigned by descending frequency, so the first ids are the most
	// common words.
	top := args.Top
	if max := arts.Vocab.Size() - 2; top > max {
		top = max
	}
	for id := 2; id < 2+top; id++ {
		fmt.Printf("%4d  %s\n", id, arts.Vocab.Word(id))
	}
	return nil
}
