package main

import "github.com/pyosim/osimsetup/cmd/osimsetup/internal"

func main() {
	internal.Execute()
}
