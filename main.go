package main

import (
	"github.com/jionmezc11/RtmpClient/internal/app"
	"github.com/jionmezc11/RtmpClient/internal/rtmp"
	"github.com/jionmezc11/RtmpClient/pkg/shell"
)

func main() {
	app.Init()  // init config and logs
	rtmp.Init() // dial, attach and play stream from config

	sig := shell.RunUntilSignal()
	app.Logger.Info().Str("signal", sig.String()).Msg("exit")

	rtmp.Close()
}
