package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/loquilabs/loqui/cmdline"
	"github.com/loquilabs/loqui/errors"
	"github.com/loquilabs/loqui/training/artifacts"
	"github.com/loquilabs/loqui/workerpool"
)

var classifyCmd = cmdline.Command{
	Name:     "classify",
	Synopsis: "classify phrases with trained artifacts",
	Args: &classifyArgs{
		Models: artifacts.DefaultDir,
	},
}

type classifyArgs struct {
	Phrases []string `arg:"positional" help:"phrases to classify"`
	Models  string   `help:"artifact directory"`
	In      string   `help:"read phrases from a file, one per line"`
}

func (args *classifyArgs) Validate() error {
	if len(args.Phrases) == 0 && args.In == "" {
		return errors.New("nothing to classify: pass phrases or --in")
	}
	return nil
}

func (args *classifyArgs) Handle() error {
	arts, err := artifacts.Load(args.Models)
	if err != nil {
		return err
	}

	phrases := args.Phrases
	if args.In != "" {
		fromFile, err := readPhrases(args.In)
		if err != nil {
			return err
		}
		phrases = append(phrases, fromFile...)
	}

	type prediction struct {
		tag  string
		prob float64
	}
	predictions := make([]prediction, len(phrases))

	pool := workerpool.New(runtime.NumCPU())
	defer pool.Stop()
	var jobs []workerpool.Job
	for i := range phrases {
		i := i
		jobs = append(jobs, func() error {
			tag, prob := arts.Classify(phrases[i])
			predictions[i] = prediction{tag: tag, prob: prob}
			return nil
		})
	}
	pool.Add(jobs)
	if err := pool.Wait(); err != nil {
		return err
	}

	for i, phrase := range phrases {
		fmt.Printf("%s\t%.3f\t%s\n", predictions[i].tag, predictions[i].prob, phrase)
	}
	return nil
}

func readPhrases(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	var phrases []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return phrases, nil
}
