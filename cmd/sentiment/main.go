// Command sentiment trains and queries a bidirectional LSTM sentiment
// classifier over a TSV review dataset.
//
// Usage:
//
//	sentiment train -data reviews.tsv [-config config.yaml] [flags]
//	sentiment predict -data reviews.tsv [flags] "sentence" ...
//
// predict trains a model with the (seeded, deterministic) configuration
// and then scores the given sentences; there is no model persistence.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/autodiff"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/backend/cpu"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/backend/webgpu"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/config"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/data"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/model"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/optim"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/runlog"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/tensor"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/text"
	"github.com/asif31iqbal/pytorch-sentiment-analysis/internal/train"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "train":
		if err := run(os.Args[2:], nil); err != nil {
			log.Fatalf("sentiment train: %v", err)
		}
	case "predict":
		args, sentences := splitFlagsAndSentences(os.Args[2:])
		if len(sentences) == 0 {
			log.Fatal("sentiment predict: no sentences given")
		}
		if err := run(args, sentences); err != nil {
			log.Fatalf("sentiment predict: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  sentiment train -data reviews.tsv [-config config.yaml] [flags]")
	fmt.Fprintln(os.Stderr, "  sentiment predict -data reviews.tsv [flags] \"sentence\" ...")
}

// splitFlagsAndSentences separates leading -flag arguments from trailing
// positional sentences. Every flag takes a value, either as "-flag value"
// or "-flag=value".
func splitFlagsAndSentences(args []string) (flags, sentences []string) {
	i := 0
	for i < len(args) {
		arg := args[i]
		if len(arg) == 0 || arg[0] != '-' {
			break
		}
		if strings.Contains(arg, "=") {
			i++
		} else {
			i += 2
		}
	}
	if i > len(args) {
		i = len(args)
	}
	return args[:i], args[i:]
}

func loadConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("sentiment", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (optional)")
	dataPath := fs.String("data", "", "TSV dataset: label<TAB>text per line")
	epochs := fs.Int("epochs", 0, "override epoch count")
	batchSize := fs.Int("batch", 0, "override batch size")
	lr := fs.Float64("lr", 0, "override learning rate")
	device := fs.String("device", "", "auto | cpu | webgpu")
	seed := fs.Int64("seed", 0, "override random seed")
	runlogPath := fs.String("runlog", "", "SQLite run history database (optional)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyOverrides(config.Overrides{
		DataPath:  *dataPath,
		Epochs:    *epochs,
		BatchSize: *batchSize,
		LR:        float32(*lr),
		Device:    *device,
		Seed:      *seed,
	})
	if *runlogPath != "" {
		cfg.RunlogPath = *runlogPath
	}
	return cfg, cfg.Validate()
}

// selectBackend picks the compute device once at startup. "auto" probes
// for a usable GPU and silently falls back to the CPU path.
func selectBackend(device string) (tensor.Backend, error) {
	switch device {
	case "cpu":
		return cpu.New(), nil
	case "webgpu":
		return webgpu.New()
	default: // auto
		if webgpu.IsAvailable() {
			if backend, err := webgpu.New(); err == nil {
				return backend, nil
			}
		}
		return cpu.New(), nil
	}
}

func newTokenizer(cfg *config.Config) (text.Tokenizer, error) {
	if cfg.Tokenizer == "subword" {
		return text.NewSubwordTokenizer("cl100k_base")
	}
	return text.NewWordTokenizer(), nil
}

func run(args []string, sentences []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	inner, err := selectBackend(cfg.Device)
	if err != nil {
		return err
	}
	backend := autodiff.New(inner)
	log.Printf("Device: %s", inner.Name())

	tokenizer, err := newTokenizer(cfg)
	if err != nil {
		return err
	}

	dataset, err := data.LoadTSV(cfg.DataPath)
	if err != nil {
		return err
	}
	trainSet, validSet, testSet, err := dataset.Split(cfg.TrainFrac, cfg.ValidFrac, cfg.Seed)
	if err != nil {
		return err
	}
	log.Printf("Examples: %d train / %d valid / %d test",
		trainSet.Len(), validSet.Len(), testSet.Len())

	// The vocabulary sees only the training split.
	docs := make([][]string, 0, trainSet.Len())
	for _, ex := range trainSet.Examples {
		docs = append(docs, tokenizer.Tokenize(ex.Text))
	}
	vocab := text.BuildVocabulary(docs, text.VocabConfig{
		MaxSize: cfg.VocabSize,
		MinFreq: cfg.MinFreq,
	})
	log.Printf("Vocabulary: %d tokens", vocab.Size())

	rng := rand.New(rand.NewSource(cfg.Seed))
	trainBatches := data.MakeBatches(trainSet, tokenizer, vocab, cfg.BatchSize, rng)
	validBatches := data.MakeBatches(validSet, tokenizer, vocab, cfg.BatchSize, nil)
	testBatches := data.MakeBatches(testSet, tokenizer, vocab, cfg.BatchSize, nil)

	clf := model.New(model.Config{
		VocabSize:     vocab.Size(),
		EmbedDim:      cfg.EmbedDim,
		HiddenDim:     cfg.HiddenDim,
		NumLayers:     cfg.NumLayers,
		Bidirectional: cfg.Bidirectional,
		Dropout:       cfg.Dropout,
	}, rng, backend)

	var optimizer optim.Optimizer
	if cfg.Optimizer == "sgd" {
		optimizer = optim.NewSGD(clf.Parameters(), optim.SGDConfig{LR: cfg.LR, Momentum: 0.9})
	} else {
		optimizer = optim.NewAdam(clf.Parameters(), optim.AdamConfig{LR: cfg.LR})
	}

	trainer := train.NewTrainer(clf, optimizer, backend)

	var store *runlog.Store
	var runID string
	ctx := context.Background()
	if cfg.RunlogPath != "" {
		store = runlog.NewStore(cfg.RunlogPath)
		if err := store.Open(ctx); err != nil {
			return err
		}
		defer store.Close()
		run, err := store.BeginRun(ctx, cfg.Dump())
		if err != nil {
			return err
		}
		runID = run.ID
		log.Printf("Run: %s", runID)
	}

	bestValid := float32(-1)
	bestEpoch := 0
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		trainMetrics := trainer.TrainEpoch(trainBatches)
		validMetrics := trainer.Evaluate(validBatches)

		fmt.Printf("Epoch %d | Train Acc: %.2f%% | Val Acc: %.2f%%\n",
			epoch, trainMetrics.Accuracy*100, validMetrics.Accuracy*100)

		if validMetrics.Accuracy > bestValid {
			bestValid = validMetrics.Accuracy
			bestEpoch = epoch
		}
		if store != nil {
			err := store.RecordEpoch(ctx, runID, runlog.EpochRecord{
				Epoch:         epoch,
				TrainLoss:     trainMetrics.Loss,
				TrainAccuracy: trainMetrics.Accuracy,
				ValidLoss:     validMetrics.Loss,
				ValidAccuracy: validMetrics.Accuracy,
			})
			if err != nil {
				return err
			}
		}
	}
	fmt.Printf("Best Val Acc: %.2f%% (epoch %d)\n", bestValid*100, bestEpoch)

	testMetrics := trainer.Evaluate(testBatches)
	fmt.Printf("Test Acc: %.2f%%\n", testMetrics.Accuracy*100)

	if len(sentences) > 0 {
		predictor := train.NewPredictor(clf, tokenizer, vocab, backend)
		for _, sentence := range sentences {
			p := predictor.Predict(sentence)
			verdict := "neg"
			if p >= 0.5 {
				verdict = "pos"
			}
			fmt.Printf("%.4f %s  %q\n", p, verdict, sentence)
		}
	}

	if releaser, ok := inner.(interface{ Release() }); ok {
		releaser.Release()
	}
	return nil
}
