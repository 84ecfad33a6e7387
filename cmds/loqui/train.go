package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/loquilabs/loqui/cmdline"
	"github.com/loquilabs/loqui/errors"
	"github.com/loquilabs/loqui/intent"
	"github.com/loquilabs/loqui/training"
	"github.com/loquilabs/loqui/training/artifacts"
	chart "github.com/wcharczuk/go-chart"
)

var trainCmd = cmdline.Command{
	Name:     "train",
	Synopsis: "train an intent classifier and write the serving artifacts",
	Args: &trainArgs{
		Intents:      "intents.json",
		Out:          artifacts.DefaultDir,
		Epochs:       200,
		BatchSize:    32,
		LearningRate: 0.001,
		Dropout:      0.5,
		Seed:         1,
		LogEvery:     20,
	},
}

type trainArgs struct {
	Intents       string `help:"intents dataset (json)"`
	Out           string `help:"artifact output directory"`
	Epochs        int
	BatchSize     int
	LearningRate  float64
	Dropout       float64
	Seed          int64
	ValidateRatio float64 `help:"fraction of patterns held out for validation"`
	Plot          string  `help:"write a training history chart (png) to this path"`
	LogEvery      int
	Quiet         bool
}

func (args *trainArgs) Handle() error {
	ds, err := intent.LoadDataset(args.Intents)
	if err != nil {
		return err
	}
	log.Printf("loaded %s: %s", args.Intents, intent.ComputeStats(ds))

	params := training.Params{
		Epochs:        args.Epochs,
		BatchSize:     args.BatchSize,
		LearningRate:  args.LearningRate,
		Dropout:       args.Dropout,
		Seed:          args.Seed,
		ValidateRatio: args.ValidateRatio,
		LogEvery:      args.LogEvery,
		Quiet:         args.Quiet,
	}
	trainer, err := training.NewTrainer(params, training.Inputs{Dataset: ds})
	if err != nil {
		return err
	}
	hp := trainer.HParams()
	log.Printf("network: vocab=%d ctx=%d classes=%d embd=%d lstm=%d/%d dense=%d dropout=%.2f",
		hp.VocabSize, hp.ContextSize, hp.NumClasses,
		hp.EmbeddingSize, hp.LSTMSize1, hp.LSTMSize2, hp.DenseSize, hp.Dropout)
	if trainer.ValidateSize() > 0 {
		log.Printf("split: %d train / %d validation", trainer.TrainSize(), trainer.ValidateSize())
	}

	results, err := trainer.Train(context.Background())
	if err != nil {
		return err
	}

	final := results.History.Final()
	log.Printf("trained %d epochs in %s: loss=%.4f acc=%.3f (baseline acc=%.3f)",
		len(results.History), results.Duration.Round(time.Millisecond),
		final.Loss, final.Accuracy, results.BaselineAccuracy)
	if results.Validate != nil {
		log.Printf("validation: loss=%.4f acc=%.3f (%d/%d correct)",
			results.Validate.Loss, results.Validate.Accuracy,
			results.Validate.Correct, results.Validate.Total)
	}

	trio := artifacts.Artifacts{Model: results.Model, Vocab: results.Vocab, Labels: results.Labels}
	if err := artifacts.Save(args.Out, trio); err != nil {
		return err
	}
	for _, name := range []string{artifacts.ModelFile, artifacts.VocabFile, artifacts.LabelsFile} {
		path := filepath.Join(args.Out, name)
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrapf(err, "stat %s", path)
		}
		log.Printf("wrote %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	}

	if args.Plot != "" {
		if err := renderHistory(args.Plot, results.History); err != nil {
			return err
		}
		log.Printf("wrote %s", args.Plot)
	}
	return nil
}

func renderHistory(path string, h training.History) (err error) {
	epochs := make([]float64, len(h))
	loss := make([]float64, len(h))
	acc := make([]float64, len(h))
	valLoss := make([]float64, len(h))
	valAcc := make([]float64, len(h))
	for i, ep := range h {
		epochs[i] = float64(ep.Epoch)
		loss[i] = ep.Loss
		acc[i] = ep.Accuracy
		valLoss[i] = ep.ValLoss
		valAcc[i] = ep.ValAccuracy
	}

	mkSeries := func(name string, ys []float64, i int) chart.Series {
		return chart.ContinuousSeries{
			Name:    name,
			XValues: epochs,
			YValues: ys,
			Style: chart.Style{
				Show:        true,
				StrokeColor: chart.GetAlternateColor(i),
			},
		}
	}
	series := []chart.Series{
		mkSeries("loss", loss, 0),
		mkSeries("accuracy", acc, 1),
	}
	if h.Final().ValLoss > 0 {
		series = append(series, mkSeries("val_loss", valLoss, 2), mkSeries("val_accuracy", valAcc, 3))
	}

	graph := chart.Chart{
		Title:      "Training History",
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "epoch",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxis: chart.YAxis{
			Name:      "loss / accuracy",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph),
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer errors.Defer(&err, f.Close)
	if err := graph.Render(chart.PNG, f); err != nil {
		return errors.Wrapf(err, "rendering history chart")
	}
	return nil
}
