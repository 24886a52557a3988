package main

import (
	"github.com/niksmo/shop/config"
	"github.com/niksmo/shop/internal/app"
	"github.com/niksmo/shop/pkg/sigctx"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	shop := app.New(sigCtx, cfg)

	shop.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := sigctx.ShutdownContext(sigCtx, cfg.ShutdownTimeout)
	defer cancel()

	shop.Close(ctx)
}
