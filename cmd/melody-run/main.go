package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/audiohaus/melody/pkg/addon"
)

func main() {
	optionsPath := flag.String("options", addon.DefaultOptionsPath, "Path to the add-on options file")
	manifestPath := flag.String("manifest", addon.DefaultManifestPath, "Path to the add-on manifest")
	serverPath := flag.String("server", "/usr/bin/melodyd", "Path to the music server binary")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	opts, err := addon.NewAccessor(*optionsPath, *manifestPath).Load()
	if err != nil {
		logger.Fatalf("Failed to load add-on options: %v", err)
	}

	launcher := addon.NewLauncher(logger, nil)
	if err := launcher.Run(*serverPath, opts); err != nil {
		logger.Fatalf("%v", err)
	}
}
