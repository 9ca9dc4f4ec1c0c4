//go:build js && wasm

package main

import (
	"context"
	"fmt"

	"github.com/esimov/foggy-mirror/mirror"
)

func main() {
	c, err := mirror.NewCanvas()
	if err != nil {
		c.Alert(fmt.Sprint(err))
		return
	}
	if err := c.Run(context.Background()); err != nil {
		c.Log(fmt.Sprint(err))
	}
}
