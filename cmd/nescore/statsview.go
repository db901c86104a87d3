package main

import (
	"log/slog"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const (
	statsviewAddr = "localhost:12600"
	statsviewPath = "/debug/statsview"
)

// launchStatsview serves runtime statistics in the background.
func launchStatsview(addr string) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	slog.Info("Stats server available", "url", "http://"+addr+statsviewPath)
}
