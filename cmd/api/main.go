package main

import (
	"go.uber.org/fx"

	"github.com/bmjaya/printworks/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
