package main

import "github.com/varalys/ghostmark/cmd/ghostmark"

func main() { ghostmark.Execute() }
