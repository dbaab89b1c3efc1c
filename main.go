// Package main - main.go
//
// Startup wiring: configuration, logger, collaborator construction, then
// either the tray UI or a single headless task run.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	configPath := flag.String("config", "wuwabot.yaml", "path to the YAML config")
	headlessTask := flag.String("task", "", "run one task headless: echo or boss")
	display := flag.Int("display", 0, "display index to capture")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := InitLogger(cfg.LogFile, cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer CloseLogger()

	frames, err := NewScreenSource(*display)
	if err != nil {
		LogError("capture: %v", err)
		os.Exit(1)
	}
	ocr := NewTesseractOCR(cfg.OCRLanguages, cfg.OCRTargetHeight)
	defer ocr.Close()
	matcher := NewTemplateMatcher(cfg.AssetsDir)
	defer matcher.Close()
	detector, err := NewYoloDetector(cfg.ModelPath, 80, cfg.EchoConfidence)
	if err != nil {
		LogError("detector: %v", err)
		os.Exit(1)
	}
	defer detector.Close()

	newTask := func() *Task {
		return NewTask(cfg, frames, ocr, matcher, detector, RobotInput{}, ActiveWindowProbe{})
	}

	switch *headlessTask {
	case "":
		NewTrayApp(newTask).Run()
	case "echo":
		runHeadless(NewFarmEchoTask(newTask()))
	case "boss":
		runHeadless(NewFarmWorldBossTask(newTask()))
	default:
		fmt.Fprintf(os.Stderr, "unknown task %q (want echo or boss)\n", *headlessTask)
		os.Exit(2)
	}
}

func runHeadless(task runnable) {
	if err := task.Run(); err != nil {
		LogError("task failed: %v", err)
		os.Exit(1)
	}
}
