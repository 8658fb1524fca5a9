// Copyright 2025 The Bazarly Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/skverma/bazarly/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
