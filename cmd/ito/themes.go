package main

import (
	"fmt"

	"github.com/lox/ito/internal/themes"
)

// ThemesCmd lists the built-in themes
type ThemesCmd struct{}

func (c *ThemesCmd) Run(*Globals) error {
	for _, t := range themes.All() {
		fmt.Println(t)
	}
	return nil
}
