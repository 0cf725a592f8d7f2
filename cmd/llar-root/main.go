package main

import "github.com/goplus/llar-root/cmd/llar-root/internal"

func main() {
	internal.Execute()
}
