//go:build !vips

package main

import (
	imagescaler "github.com/Skryldev/image-scaler"
	"github.com/Skryldev/image-scaler/core"
)

func registerExtraBackends(core.Logger) {}
func attachExtraCodecs(*imagescaler.Processor) {}
func shutdownExtraBackends() {}
