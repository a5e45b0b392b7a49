package main

import "github.com/quocvuong92/nimbuscode/cmd"

func main() {
	cmd.Execute()
}
